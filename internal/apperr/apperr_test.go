package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatusMapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"bad request", New(KindBadRequest, "no files"), http.StatusBadRequest},
		{"not found", New(KindNotFound, "missing"), http.StatusNotFound},
		{"validation", Validation(Violation{Field: "email", Message: "required"}), http.StatusInternalServerError},
		{"duplicate", New(KindDuplicateKey, "dup"), http.StatusInternalServerError},
		{"store write", Wrap(KindStoreWrite, "write", errors.New("boom")), http.StatusInternalServerError},
		{"store read", New(KindStoreRead, "read"), http.StatusInternalServerError},
		{"store delete", New(KindStoreDelete, "delete"), http.StatusInternalServerError},
		{"foreign", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("outer: %w", New(KindNotFound, "inner")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("repo: %w", Wrap(KindDuplicateKey, "email already exists", errors.New("E11000")))
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatal("expected errors.Is to match ErrDuplicateKey")
	}
	if errors.Is(err, ErrValidation) {
		t.Fatal("did not expect errors.Is to match ErrValidation")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Wrap(KindStoreRead, "open download stream", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable through Unwrap")
	}
	if got := err.Error(); got != "open download stream: socket closed" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestValidationListsViolations(t *testing.T) {
	err := Validation(
		Violation{Field: "documents", Message: "At least two documents are required"},
		Violation{Field: "email", Message: "is required"},
	)
	msg := err.Error()
	for _, want := range []string{"documents: At least two documents are required", "email: is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
	if len(err.Violations) != 2 {
		t.Fatalf("violations = %d, want 2", len(err.Violations))
	}
}

func TestKindOfUnknownForForeignErrors(t *testing.T) {
	if got := KindOf(errors.New("x")); got != KindUnknown {
		t.Fatalf("KindOf() = %q, want %q", got, KindUnknown)
	}
}
