package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
}

func NewApplicationHandler(applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// HandleApply handles POST /applications/:jobId
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return err
	}
	var req models.ApplyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.applicationService.Apply(c.UserContext(), middleware.CurrentUser(c), jobID, req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Application submitted successfully", app)
}

func (h *ApplicationHandler) HandleList(c *fiber.Ctx) error {
	list, err := h.applicationService.List(c.UserContext(), middleware.CurrentUser(c), applicationFilter(c))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", list)
}

func (h *ApplicationHandler) HandleRecent(c *fiber.Ctx) error {
	recent, err := h.applicationService.Recent(c.UserContext(), middleware.CurrentUser(c), c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", recent)
}

// HandlePipeline handles GET /applications/pipeline?job_id=
func (h *ApplicationHandler) HandlePipeline(c *fiber.Ctx) error {
	var jobID *uuid.UUID
	if raw := c.Query("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("invalid job_id format")
		}
		jobID = &id
	}

	summary, err := h.applicationService.Pipeline(c.UserContext(), middleware.CurrentUser(c), jobID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", summary)
}

func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.applicationService.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "", app)
}

func (h *ApplicationHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req models.UpdateStatusRequest
	return h.mutate(c, &req, "Application status updated", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.UpdateStatus(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleScheduleInterview(c *fiber.Ctx) error {
	var req models.ScheduleInterviewRequest
	return h.mutate(c, &req, "Interview scheduled", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.ScheduleInterview(c.UserContext(), actor, id, req)
	})
}

// HandleInterviewFeedback handles PUT /applications/:id/interviews/:interviewId/feedback
func (h *ApplicationHandler) HandleInterviewFeedback(c *fiber.Ctx) error {
	interviewID, err := paramID(c, "interviewId")
	if err != nil {
		return err
	}
	var feedback models.InterviewFeedback
	return h.mutate(c, &feedback, "Interview feedback recorded", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.RecordInterviewFeedback(c.UserContext(), actor, id, interviewID, feedback)
	})
}

func (h *ApplicationHandler) HandleAddCommunication(c *fiber.Ctx) error {
	var req models.CommunicationRequest
	return h.mutate(c, &req, "Communication added", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.AddCommunication(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleAddReference(c *fiber.Ctx) error {
	var req models.ReferenceRequest
	return h.mutate(c, &req, "Reference added", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.AddReference(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleExtendOffer(c *fiber.Ctx) error {
	var req models.OfferRequest
	return h.mutate(c, &req, "Offer extended", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.ExtendOffer(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleRespondOffer(c *fiber.Ctx) error {
	var req models.OfferResponseRequest
	return h.mutate(c, &req, "Offer response recorded", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.RespondOffer(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleWithdraw(c *fiber.Ctx) error {
	var req models.WithdrawRequest
	return h.mutate(c, &req, "Application withdrawn", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.Withdraw(c.UserContext(), actor, id, req)
	})
}

func (h *ApplicationHandler) HandleUpdateScore(c *fiber.Ctx) error {
	var breakdown models.ScoreBreakdown
	return h.mutate(c, &breakdown, "Match score updated", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.UpdateScore(c.UserContext(), actor, id, breakdown)
	})
}

func (h *ApplicationHandler) HandleRecalculateScore(c *fiber.Ctx) error {
	return h.mutate(c, nil, "Match score recalculated", func(actor *models.User, id uuid.UUID) (*models.Application, error) {
		return h.applicationService.RecalculateScore(c.UserContext(), actor, id)
	})
}

// mutate parses :id and the optional body, then runs op for the current user.
func (h *ApplicationHandler) mutate(
	c *fiber.Ctx,
	body interface{},
	message string,
	op func(actor *models.User, id uuid.UUID) (*models.Application, error),
) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if body != nil {
		if err := bind(c, body); err != nil {
			return err
		}
	}

	app, err := op(middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, message, app)
}
