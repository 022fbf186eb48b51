package repository

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/resumerank/pkg/metrics"
)

var tracer = otel.Tracer("github.com/okian/resumerank/internal/adapters/repository")

// observe records one store call. Lookups that find nothing are not failures.
func observe(op string, start time.Time, errp *error) {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Milliseconds()), failure(*errp))
}

// traced is observe plus a span, used around aggregation queries.
func traced(ctx context.Context, system, op string) (context.Context, func(errp *error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("db.system", system),
		attribute.String("db.operation", op),
	))
	return ctx, func(errp *error) {
		if err := failure(*errp); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, op+" failed")
		}
		span.End()
		observe(op, start, errp)
	}
}

func failure(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
		return nil
	}
	return err
}
