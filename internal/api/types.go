package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/sprintdeck/sprintdeck/internal/apperr"
)

// ProblemDetail is the error response body for all non-2xx responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

func problemResponse(c *fiber.Ctx, status int, problemType, title, detail string) error {
	return c.Status(status).JSON(ProblemDetail{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Path(),
	})
}

// storeError maps store failures onto the API's two error kinds:
// ValidationError to 400, ErrNotFound to 404. Anything else bubbles to the
// fiber error handler as a 500.
func storeError(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return problemResponse(c, fiber.StatusBadRequest,
			"validation_failed", "Bad Request", ve.Error())
	}
	if apperr.IsNotFound(err) {
		return problemResponse(c, fiber.StatusNotFound,
			"not_found", "Not Found", err.Error())
	}
	return err
}

// idParam parses an integer id path segment.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s path parameter", name)
	}
	return int64(id), nil
}

func badParam(c *fiber.Ctx, err error) error {
	return problemResponse(c, fiber.StatusBadRequest,
		"invalid_id", "Bad Request", err.Error())
}

func badBody(c *fiber.Ctx, err error) error {
	return problemResponse(c, fiber.StatusBadRequest,
		"invalid_body", "Bad Request", "Invalid request body: "+err.Error())
}
