package ctlambda

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

// NewTracerProvider initializes OpenTelemetry with the exporter named by the
// environment and shuts it down through the fx lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return noop.NewTracerProvider(), nil
	}

	ctx := context.Background()

	exporter, err := newExporter(ctx, env.otelExporter())
	if err != nil {
		return nil, err
	}

	// Detect Lambda resource attributes (function name, version, etc.).
	res, err := lambdadetector.NewResourceDetector().Detect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "detecting lambda resource")
	}

	// Synchronous span processor: Lambda may freeze the container between
	// invocations, so spans must be exported before the handler returns.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
		sdktrace.WithIDGenerator(xray.NewIDGenerator()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})

	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}})

	return tp, nil
}

func newExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp":
		// Export directly to Lambda's built-in X-Ray daemon via UDP,
		// no collector layer needed.
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, errors.Newf("unsupported OTEL_EXPORTER: %q (supported: stdout, xrayudp)", name)
	}
}

// NewHTTPClient returns an http.Client with an OpenTelemetry-instrumented
// transport and a per-request timeout for outbound API calls.
func NewHTTPClient(tp trace.TracerProvider, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(tp)),
	}
}
