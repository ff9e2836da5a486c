package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/repcrafter/gateway/internal/config"
)

func TestNewRedis_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	defer mr.Close()

	r := NewRedis(config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()

	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure after server shutdown")
	}
}
