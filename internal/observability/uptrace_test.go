package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/nba-trixie/internal/config"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

func TestInitUptrace_DisabledIsNoop(t *testing.T) {
	cases := []config.Config{
		{UptraceEnabled: false, ServiceName: "nba-trixie-api", AppEnv: config.EnvDev},
		{UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "nba-trixie-api", AppEnv: config.EnvDev},
	}
	for _, cfg := range cases {
		shutdown, err := InitUptrace(cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("init uptrace: %v", err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown uptrace: %v", err)
		}
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil || srv != nil {
		t.Fatalf("expected no server when disabled, got %v err=%v", srv, err)
	}
	if err := StopPprofServer(nil, nil, 0); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}
