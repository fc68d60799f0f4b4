package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.profileService.GetProfile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", user)
}

func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.profileService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Profile updated successfully", user)
}
