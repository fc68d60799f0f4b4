package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/repositories"
	"alfredoptarigan/job-portal/internal/services"
)

type JobHandler struct {
	jobService         services.JobService
	applicationService services.ApplicationService
	recommender        services.RecommendationService
}

func NewJobHandler(
	jobService services.JobService,
	applicationService services.ApplicationService,
	recommender services.RecommendationService,
) *JobHandler {
	return &JobHandler{
		jobService:         jobService,
		applicationService: applicationService,
		recommender:        recommender,
	}
}

// HandleSearch handles GET /jobs
func (h *JobHandler) HandleSearch(c *fiber.Ctx) error {
	var query models.JobSearchQuery
	if err := c.QueryParser(&query); err != nil {
		return apperror.Validation("invalid search parameters")
	}

	result, err := h.jobService.Search(c.UserContext(), query)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", result)
}

func (h *JobHandler) HandleCategories(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "", h.jobService.Categories())
}

func (h *JobHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.jobService.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", stats)
}

func (h *JobHandler) HandleMine(c *fiber.Ctx) error {
	jobs, err := h.jobService.ListMine(c.UserContext(), middleware.CurrentUser(c), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", jobs)
}

func (h *JobHandler) HandleSaved(c *fiber.Ctx) error {
	jobs, err := h.jobService.Saved(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", jobs)
}

func (h *JobHandler) HandleToggleSave(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	saved, err := h.jobService.ToggleSave(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	message := "Job removed from saved list"
	if saved {
		message = "Job saved successfully"
	}
	return success(c, fiber.StatusOK, message, fiber.Map{"saved": saved})
}

func (h *JobHandler) HandleRecommended(c *fiber.Ctx) error {
	recs, err := h.recommender.Recommend(c.UserContext(), middleware.CurrentUser(c), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", recs)
}

// HandleGet handles GET /jobs/:id. The viewer is optional.
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.Get(c.UserContext(), id, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", job)
}

func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.Create(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Job created successfully", job)
}

func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.JobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.Update(c.UserContext(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Job updated successfully", job)
}

func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *JobHandler) HandleSetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req models.JobStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.SetStatus(c.UserContext(), middleware.CurrentUser(c), id, req.Status)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Job status updated", job)
}

func (h *JobHandler) HandleToggleStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	job, err := h.jobService.ToggleStatus(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Job status toggled", job)
}

// HandleApplications handles GET /jobs/:id/applications?status=&page=&limit=
func (h *JobHandler) HandleApplications(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	list, err := h.applicationService.ListForJob(c.UserContext(), middleware.CurrentUser(c), id, applicationFilter(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", list)
}

func (h *JobHandler) HandleTopCandidates(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	apps, err := h.applicationService.TopCandidates(c.UserContext(), middleware.CurrentUser(c), id, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", apps)
}

func applicationFilter(c *fiber.Ctx) repositories.ApplicationFilter {
	return repositories.ApplicationFilter{
		Status: models.ApplicationStatus(c.Query("status")),
		Page:   c.QueryInt("page"),
		Limit:  c.QueryInt("limit"),
	}
}
