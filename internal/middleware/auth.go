package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

const userKey = "user"

// Authenticate resolves the bearer token to an active user and stores it in
// the request locals.
func Authenticate(auth services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return apperror.Unauthorized("missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperror.Unauthorized("invalid authorization header")
		}

		user, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := strings.SplitN(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if user, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(parts[1])); err == nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthorized("authentication required")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return apperror.Forbidden("insufficient role")
	}
}

func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthorized("authentication required")
		}
		if !user.IsVerified {
			return apperror.Forbidden("please verify your email first")
		}
		return c.Next()
	}
}

// RequireVerifiedRecruiter admits admins and recruiters an admin has
// verified.
func RequireVerifiedRecruiter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthorized("authentication required")
		}
		if user.Role == models.RoleAdmin {
			return c.Next()
		}
		if user.Role != models.RoleRecruiter {
			return apperror.Forbidden("insufficient role")
		}
		if !user.RecruiterProfile.IsVerifiedRecruiter {
			return apperror.Forbidden("recruiter account is pending verification")
		}
		return c.Next()
	}
}
