package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/router"

	"tweet-clock/models"
)

func Success(e *core.RequestEvent, data any) error {
	return e.JSON(http.StatusOK, data)
}

// Error maps the error taxonomy onto API errors: validation 400, missing 404,
// upstream 503, anything else 500.
func Error(e *core.RequestEvent, logger *slog.Logger, err error) error {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		upstreamErr   *models.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		return e.BadRequestError(validationErr.Error(), nil)
	case errors.As(err, &notFoundErr):
		return e.NotFoundError("Tweet not found", nil)
	case errors.As(err, &upstreamErr):
		logger.Error("Upstream failure", "service", upstreamErr.Service, "error", upstreamErr.Err)
		return router.NewApiError(http.StatusServiceUnavailable, upstreamErr.Err.Error(), nil)
	default:
		logger.Error("Request failed", "path", e.Request.URL.Path, "error", err)
		return e.InternalServerError("Error processing request: "+err.Error(), nil)
	}
}
