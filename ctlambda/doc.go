// Package ctlambda provides the shared runtime for event-driven Lambda
// handlers: environment parsing, structured logging, OpenTelemetry tracing,
// instrumented HTTP clients, and the fx wiring that ends in lambda.Start.
//
// # Overview
//
// A handler is a constructor that produces a lambda.Handler; everything
// around it is assembled by [NewApp]:
//
//	ctlambda.NewApp[Env](
//	    ctlambda.WithFx(fx.Provide(newIMSClient, newHandler)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    ctlambda.BaseEnvironment
//	    ClientID string `env:"ClientId,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable      | Required | Default | Description                          |
//	|---------------|----------|---------|--------------------------------------|
//	| SERVICE_NAME  | Yes      | -       | Service name for logging and tracing |
//	| LOG_LEVEL     | No       | info    | Log level (debug, info, warn, error) |
//	| OTEL_EXPORTER | No       | stdout  | Trace exporter: "stdout" or "xrayudp"|
//
// # Tracing
//
// OpenTelemetry tracing is configured from OTEL_EXPORTER:
//
//   - "stdout" (default): pretty-printed spans for local development
//   - "xrayudp": X-Ray UDP exporter for Lambda with proper trace ID format
//
// Outbound HTTP clients built with [NewHTTPClient] carry an instrumented
// transport so every IMS and carrier call shows up as a span.
package ctlambda
