package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/ProductReviewGo/pkg/logger"
)

const dbTracerName = "github.com/utafrali/ProductReviewGo/pkg/database"

// SlowQueryThreshold is the duration above which completed queries are logged
// at warn level. Overridable at startup from configuration.
var SlowQueryThreshold = 200 * time.Millisecond

// TraceQuery wraps a database operation in an OpenTelemetry span and logs slow
// queries. The operation name becomes the span name; the query text is
// truncated and attached as an attribute.
func TraceQuery(ctx context.Context, operation, query string, fn func(ctx context.Context) error) error {
	tracer := otel.Tracer(dbTracerName)

	ctx, span := tracer.Start(ctx, operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", truncateQuery(query)),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int64("db.duration_ms", elapsed.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if elapsed > SlowQueryThreshold {
		logger.FromContext(ctx).Warn("slow query",
			slog.String("operation", operation),
			slog.Duration("duration", elapsed),
			slog.String("query", truncateQuery(query)),
		)
	}

	return nil
}

func truncateQuery(query string) string {
	const maxLen = 512
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
