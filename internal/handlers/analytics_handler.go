package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) HandleDashboard(c *fiber.Ctx) error {
	dashboard, err := h.analyticsService.Dashboard(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", dashboard)
}
