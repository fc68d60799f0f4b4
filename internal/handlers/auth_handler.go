package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/middleware"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "User registered successfully. Please check your email to verify your account.", resp)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "", middleware.CurrentUser(c))
}

// HandleLogout acknowledges the logout. Tokens are stateless and expire on
// their own.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	resp, err := h.authService.Refresh(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Token refreshed", resp)
}

// HandleVerifyEmail serves both GET /auth/verify-email?token= and
// PUT /auth/verify/:token.
func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		return apperror.Validation("verification token is required")
	}

	user, err := h.authService.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Email verified successfully", user)
}

// HandleForgotPassword answers the same way whether or not the email is
// registered.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Email == "" {
		return apperror.Validation("email is required")
	}

	if _, err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return err
	}
	return success(c, fiber.StatusOK, "If that email is registered, a password reset link has been sent", nil)
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req models.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.ResetPassword(c.UserContext(), c.Params("token"), req.Password)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Password reset successful", resp)
}

func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.UserContext(), middleware.CurrentUser(c).ID, req); err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Password changed successfully", nil)
}
