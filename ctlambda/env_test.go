package ctlambda_test

import (
	"os"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/parcelport/carriertransport/ctlambda"
)

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "booking")

	env, err := ctlambda.ParseEnv[ctlambda.BaseEnvironment]()()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.ServiceName != "booking" {
		t.Errorf("expected service name booking, got %s", env.ServiceName)
	}
	if env.LogLevel != zapcore.InfoLevel {
		t.Errorf("expected default level info, got %s", env.LogLevel)
	}
	if env.OtelExporter != "stdout" {
		t.Errorf("expected default exporter stdout, got %s", env.OtelExporter)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "booking")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OTEL_EXPORTER", "xrayudp")

	env, err := ctlambda.ParseEnv[ctlambda.BaseEnvironment]()()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.LogLevel != zapcore.DebugLevel {
		t.Errorf("expected level debug, got %s", env.LogLevel)
	}
	if env.OtelExporter != "xrayudp" {
		t.Errorf("expected exporter xrayudp, got %s", env.OtelExporter)
	}
}

func TestParseEnvRequiresServiceName(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not empty.
	t.Setenv("SERVICE_NAME", "")
	os.Unsetenv("SERVICE_NAME")

	if _, err := ctlambda.ParseEnv[ctlambda.BaseEnvironment]()(); err == nil {
		t.Error("expected error when SERVICE_NAME is unset")
	}
}

type customEnv struct {
	ctlambda.BaseEnvironment

	ClientID string `env:"ClientId,required"`
}

func TestParseEnvEmbedded(t *testing.T) {
	t.Setenv("SERVICE_NAME", "booking")
	t.Setenv("ClientId", "client-1")

	env, err := ctlambda.ParseEnv[customEnv]()()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.ClientID != "client-1" {
		t.Errorf("expected client id client-1, got %s", env.ClientID)
	}
	if env.ServiceName != "booking" {
		t.Errorf("expected embedded service name, got %s", env.ServiceName)
	}
}
