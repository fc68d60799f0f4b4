package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Upload      *UploadHandler
	Jobs        *JobHandler
	Application *ApplicationHandler
	Admin       *AdminHandler
	Analytics   *AnalyticsHandler
}

// Throttle sets the attempt budgets of the sensitive auth routes.
type Throttle struct {
	Limiter          services.RateLimiter
	LoginMaxAttempts int
	LoginWindow      time.Duration
	ResetMaxAttempts int
	ResetWindow      time.Duration
}

// RegisterRoutes mounts the REST surface on api, normally the /api/v1 group.
func RegisterRoutes(api fiber.Router, h *Handlers, authService services.AuthService, throttle Throttle) {
	protect := middleware.Authenticate(authService)
	seeker := middleware.RequireRole(models.RoleJobSeeker)
	recruiter := middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.HandleRegister)
	auth.Post("/login", middleware.RateLimit(throttle.Limiter, "login", throttle.LoginMaxAttempts, throttle.LoginWindow), h.Auth.HandleLogin)
	auth.Get("/me", protect, h.Auth.HandleMe)
	auth.Post("/logout", protect, h.Auth.HandleLogout)
	auth.Post("/refresh", protect, h.Auth.HandleRefresh)
	auth.Get("/verify-email", h.Auth.HandleVerifyEmail)
	auth.Put("/verify/:token", h.Auth.HandleVerifyEmail)
	auth.Post("/forgot-password", middleware.RateLimit(throttle.Limiter, "forgot-password", throttle.ResetMaxAttempts, throttle.ResetWindow), h.Auth.HandleForgotPassword)
	auth.Put("/reset-password/:token", h.Auth.HandleResetPassword)
	auth.Put("/change-password", protect, h.Auth.HandleChangePassword)

	users := api.Group("/users", protect)
	users.Get("/profile", h.Profile.HandleGetProfile)
	users.Put("/profile", h.Profile.HandleUpdateProfile)
	users.Post("/profile/resume", seeker, h.Upload.HandleUpload)

	jobs := api.Group("/jobs")
	jobs.Get("/", h.Jobs.HandleSearch)
	jobs.Get("/categories", h.Jobs.HandleCategories)
	jobs.Get("/stats", h.Jobs.HandleStats)
	jobs.Get("/my", protect, recruiter, h.Jobs.HandleMine)
	jobs.Get("/saved", protect, seeker, h.Jobs.HandleSaved)
	jobs.Get("/recommended", protect, seeker, h.Jobs.HandleRecommended)
	jobs.Get("/:id", middleware.OptionalAuth(authService), h.Jobs.HandleGet)
	jobs.Post("/", protect, recruiter, middleware.RequireVerifiedRecruiter(), h.Jobs.HandleCreate)
	jobs.Post("/:id/save", protect, seeker, h.Jobs.HandleToggleSave)
	jobs.Put("/:id", protect, recruiter, h.Jobs.HandleUpdate)
	jobs.Delete("/:id", protect, recruiter, h.Jobs.HandleDelete)
	jobs.Patch("/:id/status", protect, recruiter, h.Jobs.HandleSetStatus)
	jobs.Patch("/:id/toggle-status", protect, recruiter, h.Jobs.HandleToggleStatus)
	jobs.Get("/:id/applications", protect, recruiter, h.Jobs.HandleApplications)
	jobs.Get("/:id/top-candidates", protect, recruiter, h.Jobs.HandleTopCandidates)

	apps := api.Group("/applications", protect)
	apps.Get("/", h.Application.HandleList)
	apps.Get("/recent", recruiter, h.Application.HandleRecent)
	apps.Get("/pipeline", recruiter, h.Application.HandlePipeline)
	apps.Post("/:jobId", seeker, middleware.RequireVerified(), h.Application.HandleApply)
	apps.Get("/:id", h.Application.HandleGet)
	apps.Patch("/:id/status", recruiter, h.Application.HandleUpdateStatus)
	apps.Post("/:id/interviews", recruiter, h.Application.HandleScheduleInterview)
	apps.Put("/:id/interviews/:interviewId/feedback", recruiter, h.Application.HandleInterviewFeedback)
	apps.Post("/:id/communications", h.Application.HandleAddCommunication)
	apps.Post("/:id/references", h.Application.HandleAddReference)
	apps.Post("/:id/offer", recruiter, h.Application.HandleExtendOffer)
	apps.Post("/:id/offer/response", seeker, h.Application.HandleRespondOffer)
	apps.Post("/:id/withdraw", seeker, h.Application.HandleWithdraw)
	apps.Put("/:id/score", recruiter, h.Application.HandleUpdateScore)
	apps.Post("/:id/score/recalculate", recruiter, h.Application.HandleRecalculateScore)

	adminGroup := api.Group("/admin", protect, admin)
	adminGroup.Get("/users", h.Admin.HandleListUsers)
	adminGroup.Put("/verify-recruiter/:id", h.Admin.HandleVerifyRecruiter)
	adminGroup.Put("/users/:id/status", h.Admin.HandleSetUserStatus)

	api.Get("/analytics/dashboard", protect, h.Analytics.HandleDashboard)
}
