// Package respond writes JSON and problem responses for the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"audition-api/internal/domain/entity"
	"audition-api/internal/observability/logging"
)

const (
	// TitleBadRequest is the problem title for rejected input.
	TitleBadRequest = "Bad Request"

	problemContentType = "application/problem+json"
	genericDetail      = "An unexpected error occurred"
)

// Problem is the error body returned to clients.
type Problem struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Status   int    `json:"status"`
	Instance string `json:"instance,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	write(w, code, "application/json", v)
}

// ProblemFor maps an error to the problem sent to the client.
//
//   - *entity.UpstreamError keeps its title, message and status.
//   - *entity.ValidationError becomes 400 Bad Request with the validation message.
//   - anything else becomes 500 System Error with a generic detail.
func ProblemFor(err error) Problem {
	var upErr *entity.UpstreamError
	if errors.As(err, &upErr) {
		status := upErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		return Problem{Title: upErr.Title, Detail: SanitizeError(upErr), Status: status}
	}

	var valErr *entity.ValidationError
	if errors.As(err, &valErr) {
		return Problem{Title: TitleBadRequest, Detail: valErr.Message, Status: http.StatusBadRequest}
	}

	return Problem{Title: entity.TitleSystemError, Detail: genericDetail, Status: http.StatusInternalServerError}
}

// Error writes err as a problem response. Server side failures are logged with
// the request scoped logger; credentials are masked in both log and body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	p := ProblemFor(err)
	p.Instance = r.URL.Path

	logger := logging.FromContext(r.Context())
	if p.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.Int("status", p.Status),
			slog.String("title", p.Title),
			slog.String("error", SanitizeError(err)))
	} else {
		logger.Info("request rejected",
			slog.Int("status", p.Status),
			slog.String("title", p.Title),
			slog.String("detail", p.Detail))
	}

	write(w, p.Status, problemContentType, p)
}

func write(w http.ResponseWriter, code int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}
