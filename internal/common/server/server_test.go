package server

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/AlibekovAA/auth-service/internal/common/logger"
)

func TestRun_ShutsDownAndRunsHooks(t *testing.T) {
	cfg := DefaultServerConfig("0")
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	cfg.DrainTimeout = time.Second

	srv := NewServer(cfg, http.NotFoundHandler())
	log := logger.NewWithWriter(&bytes.Buffer{}, "auth", "error")

	ctx, cancel := context.WithCancel(context.Background())
	hookRan := make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, cfg, log, "auth", func(ctx context.Context) error {
			hookRan <- struct{}{}
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	select {
	case <-hookRan:
	default:
		t.Error("shutdown hook did not run")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := DefaultServerConfig("0")
	cfg.Addr = "256.0.0.1:bad"
	log := logger.NewWithWriter(&bytes.Buffer{}, "auth", "error")

	if err := Run(context.Background(), NewServer(cfg, http.NotFoundHandler()), cfg, log, "auth"); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("8081")
	if cfg.Addr != ":8081" {
		t.Errorf("expected :8081, got %s", cfg.Addr)
	}
	if cfg.ShutdownTimeout <= cfg.DrainTimeout {
		t.Errorf("shutdown timeout %s should exceed drain timeout %s", cfg.ShutdownTimeout, cfg.DrainTimeout)
	}
}
