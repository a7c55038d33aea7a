package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	cerrors "github.com/matzehuels/chordgen/pkg/errors"
	"github.com/matzehuels/chordgen/pkg/observability"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    cerrors.Code `json:"code,omitempty"`
	Message string       `json:"message"`
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	var span *cerrors.SpanTooWideError
	if errors.As(err, &span) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeInvalidInput,
		cerrors.ErrCodeInvalidChord,
		cerrors.ErrCodeInvalidFinger,
		cerrors.ErrCodeInvalidFret,
		cerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case cerrors.ErrCodeNotFound,
		cerrors.ErrCodeChordNotFound,
		cerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as JSON. Server-side failures are logged and their
// details withheld from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	detail := errorDetail{Code: cerrors.GetCode(err), Message: cerrors.UserMessage(err)}
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if detail.Code == "" {
			detail.Code = cerrors.ErrCodeInternal
		}
		if detail.Code == cerrors.ErrCodeInternal || detail.Code == cerrors.ErrCodeUnresolvedAnchor {
			detail.Message = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
