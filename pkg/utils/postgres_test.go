package utils

import (
	"testing"
	"time"
)

func TestPoolConfigDefaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool sizes, got %+v", c)
	}
	if c.ConnMaxLifetime <= 0 || c.ConnMaxIdleTime <= 0 || c.PingTimeout <= 0 {
		t.Fatalf("expected positive durations, got %+v", c)
	}
}

func TestPoolConfigKeepsExplicitValues(t *testing.T) {
	c := PostgresPoolConfig{MaxOpenConns: 3, PingTimeout: time.Second}.withDefaults()
	if c.MaxOpenConns != 3 {
		t.Fatalf("MaxOpenConns = %d, want 3", c.MaxOpenConns)
	}
	if c.PingTimeout != time.Second {
		t.Fatalf("PingTimeout = %v, want 1s", c.PingTimeout)
	}
}
