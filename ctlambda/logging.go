package ctlambda

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Lambda ships stdout to CloudWatch,
// so logs are JSON on stdout with the level taken from the environment.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}

	return logger.Named(env.serviceName()), nil
}
