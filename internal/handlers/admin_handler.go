package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// HandleListUsers handles GET /admin/users?role=&page=&limit=
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	list, err := h.adminService.ListUsers(c.UserContext(), models.Role(c.Query("role")), c.QueryInt("page"), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", list)
}

func (h *AdminHandler) HandleVerifyRecruiter(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.adminService.VerifyRecruiter(c.UserContext(), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Recruiter verified successfully", user)
}

func (h *AdminHandler) HandleSetUserStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.UserStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.SetUserStatus(c.UserContext(), middleware.CurrentUser(c), id, req.IsActive)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "User status updated", user)
}
