package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/services"
)

// RateLimit throttles a route per client IP and account. The account part is
// the authenticated user, else the email in the request body, else
// "anonymous".
func RateLimit(limiter services.RateLimiter, scope string, maxAttempts int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := scope + ":" + c.IP() + ":" + accountKey(c)
		if !limiter.Allow(c.UserContext(), key, maxAttempts, window) {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds(window))
			return apperror.New(apperror.KindRateLimited, "too many attempts, please try again later")
		}
		return c.Next()
	}
}

func accountKey(c *fiber.Ctx) string {
	if user := CurrentUser(c); user != nil {
		return user.ID.String()
	}

	var body struct {
		Email string `json:"email"`
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&body); err == nil {
			if email := strings.ToLower(strings.TrimSpace(body.Email)); email != "" {
				return email
			}
		}
	}
	return "anonymous"
}

func retryAfterSeconds(window time.Duration) string {
	secs := int(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
