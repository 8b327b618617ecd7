package service

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/templui/intake/internal/apperr"
)

// endSpan records err, if any, and ends the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(apperr.KindOf(err))))
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
