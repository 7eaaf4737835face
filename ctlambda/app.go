package ctlambda

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 5 * time.Second
)

// App is a fully wired Lambda application. Create it with NewApp and hand
// control to the Lambda runtime with Run.
type App struct {
	fxApp   *fx.App
	handler lambda.Handler
}

// options holds configuration collected from Option values.
type options struct {
	fxOptions []fx.Option
}

// Option configures the application.
type Option func(*options)

// WithFx adds custom fx options (providers, invocations) to the application.
// One of the providers must result in a lambda.Handler value.
func WithFx(opts ...fx.Option) Option {
	return func(o *options) {
		o.fxOptions = append(o.fxOptions, opts...)
	}
}

// NewApp builds the dependency graph for an event-driven Lambda handler.
// The graph always contains the parsed environment, the logger, and the
// tracer provider; everything else comes in through WithFx.
func NewApp[E Environment](opts ...Option) *App {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	app := &App{}
	app.fxApp = fx.New(
		fx.Provide(
			ParseEnv[E](),
			func(env E) Environment { return env },
			NewLogger,
			NewTracerProvider,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Options(o.fxOptions...),
		fx.Populate(&app.handler),
	)

	return app
}

// Run starts the dependency graph and blocks in the Lambda runtime until the
// process is shut down. On SIGTERM the graph is stopped so pending traces
// are flushed.
func (a *App) Run() {
	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := a.fxApp.Start(startCtx); err != nil {
		log.Fatalf("starting application: %v", err)
	}

	lambda.StartWithOptions(a.handler, lambda.WithEnableSIGTERM(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		_ = a.fxApp.Stop(stopCtx)
	}))
}
