package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/model"
	"github.com/templui/intake/internal/service"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit stores one intake form.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input model.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			Fallback(w, r, err)
			return
		}
		submitFailed(w, castError(typeErr))
		return
	}

	sub, err := h.submissionService.Submit(r.Context(), &input)
	if err != nil {
		submitFailed(w, err)
		return
	}

	slog.Info("form submitted", "id", sub.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Form submitted successfully"})
}

func submitFailed(w http.ResponseWriter, err error) {
	slog.Warn("failed to submit form", "error", err, "kind", apperr.KindOf(err))
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{
		"message": "Error submitting form",
		"error":   err.Error(),
	})
}

// castError reports a well-formed body whose field holds the wrong JSON type
// as a validation failure on that field.
func castError(err *json.UnmarshalTypeError) error {
	field := err.Field
	if field == "" {
		field = "body"
	}
	return apperr.Validation(apperr.Violation{
		Field:   field,
		Message: fmt.Sprintf("cast to %s failed for %s value", err.Type, err.Value),
	})
}
