package redis

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/jclinedev/hiddencity/internal/domain"
)

func TestOfferKey(t *testing.T) {
	q := domain.RouteQuery{Origin: "JFK", Destination: "SLC", Date: "03/15/2026"}
	if got, want := offerKey(q), "offers:JFK:SLC:03/15/2026"; got != want {
		t.Fatalf("offerKey = %q, want %q", got, want)
	}
}

func TestEffectiveTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"zero falls back to default", 0, defaultTTL},
		{"negative falls back to default", -time.Minute, defaultTTL},
		{"explicit value kept", 5 * time.Minute, 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveTTL(tt.ttl); got != tt.want {
				t.Fatalf("effectiveTTL(%v) = %v, want %v", tt.ttl, got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Config{
		Addr:       "localhost:6379",
		Password:   "secret",
		DB:         2,
		PoolSize:   8,
		MaxRetries: 4,
	}

	opts := options(cfg)
	if opts.Addr != cfg.Addr || opts.Password != cfg.Password || opts.DB != cfg.DB {
		t.Fatalf("connection options not carried over: %+v", opts)
	}
	if opts.PoolSize != cfg.PoolSize || opts.MaxRetries != cfg.MaxRetries {
		t.Fatalf("pool options not carried over: %+v", opts)
	}
	if opts.TLSConfig != nil {
		t.Fatal("TLS config set without tls_enabled")
	}

	cfg.TLSEnabled = true
	opts = options(cfg)
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("TLS config = %+v, want min version TLS 1.2", opts.TLSConfig)
	}
}
