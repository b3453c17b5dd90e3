/*
Package tracing provides lightweight request and reload tracing.

Spans carry a trace id, a span id and an optional parent, and are written to
the structured log by a buffered collector: successful spans at debug level,
failed ones as warnings. Trace context propagates through context.Context and
the X-Trace-ID / X-Span-ID HTTP headers.

# Usage

	tracer := tracing.New("showcase", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "reload")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
