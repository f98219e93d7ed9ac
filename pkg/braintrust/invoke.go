package braintrust

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InvokeResult is the outcome of a prompt invocation.
type InvokeResult struct {
	// Output is the text extracted from Raw, or Raw itself when no text could
	// be found.
	Output   any
	Duration time.Duration
	Raw      any
}

// Invoke runs the prompt identified by project and slug with input.
func (c *Client) Invoke(ctx context.Context, projectName, slug string, input any) (*InvokeResult, error) {
	ctx, span := c.tracer.Start(ctx, "braintrust.invoke", trace.WithAttributes(
		attribute.String("braintrust.project", projectName),
		attribute.String("braintrust.slug", slug),
	))
	defer span.End()

	if input == nil {
		input = map[string]any{}
	}

	req := InvokeRequest{
		ProjectName: projectName,
		Slug:        slug,
		Input:       input,
	}

	start := time.Now()
	var raw json.RawMessage
	err := c.doRequest(ctx, http.MethodPost, "/function/invoke", nil, req, &raw)
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invoke failed")
		return nil, err
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int64("braintrust.duration_ms", duration.Milliseconds()))
	span.SetStatus(codes.Ok, "")
	slog.Debug("Invoked prompt", "project", projectName, "slug", slug, "duration", duration)

	return &InvokeResult{
		Output:   ExtractOutput(decoded),
		Duration: duration,
		Raw:      decoded,
	}, nil
}
