package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/services"
)

type UploadHandler struct {
	profileService services.ProfileService
	maxFileSize    int64
}

func NewUploadHandler(profileService services.ProfileService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		profileService: profileService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /users/profile/resume
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperror.Validation("failed to parse multipart form")
	}

	resumes, exists := form.File["resume"]
	if !exists || len(resumes) == 0 {
		return apperror.Validation("no resume uploaded. Please upload 'resume' as a PDF file.")
	}

	resume := resumes[0]
	if resume.Size > h.maxFileSize {
		return apperror.Validation(fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	resp, err := h.profileService.UploadResume(c.UserContext(), middleware.CurrentUser(c), resume)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Resume uploaded and parsed successfully", resp)
}
