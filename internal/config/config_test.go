package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.BlobBackend != "fs" {
		t.Fatalf("expected fs blob backend, got %q", cfg.BlobBackend)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ElevationNoiseM != 1.0 {
		t.Fatalf("expected 1m elevation noise floor, got %v", cfg.ElevationNoiseM)
	}
	if cfg.SimplifyToleranceM != 10.0 {
		t.Fatalf("expected 10m simplify tolerance, got %v", cfg.SimplifyToleranceM)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BLOB_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "uploads")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.BlobBackend != "s3" || cfg.S3Bucket != "uploads" {
		t.Fatalf("expected override blob backend")
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("expected override upload limit, got %d", cfg.MaxUploadBytes)
	}
}
