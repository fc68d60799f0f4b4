package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/job-portal/internal/apperror"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"error", "code", "kind"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	kind := apperror.KindOf(err)
	code := apperror.HTTPStatus(kind)
	message := apperror.Message(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		kind = kindForStatus(code)
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
		"kind":  kind,
	})
}

func kindForStatus(code int) apperror.Kind {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return apperror.KindValidation
	case fiber.StatusUnauthorized:
		return apperror.KindUnauthorized
	case fiber.StatusForbidden:
		return apperror.KindForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperror.KindNotFound
	case fiber.StatusTooManyRequests:
		return apperror.KindRateLimited
	}
	return apperror.KindInternal
}

func success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("invalid request payload")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + name + " format")
	}
	return id, nil
}
