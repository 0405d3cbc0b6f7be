package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port: got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("default driver: got %s", cfg.Database.Driver)
	}
	if cfg.Storage.Backend != StorageS3 {
		t.Errorf("default storage backend: got %s", cfg.Storage.Backend)
	}
	if len(cfg.Access.AllowedIPs) != 0 {
		t.Errorf("default allow-list must be empty, got %v", cfg.Access.AllowedIPs)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://db:5432/qa?sslmode=disable")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("ALLOWED_IPS", "192.0.2.10, 192.0.2.11 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port: got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.URL != "postgres://db:5432/qa?sslmode=disable" {
		t.Errorf("database config: %+v", cfg.Database)
	}
	if cfg.Storage.Backend != StorageMinio || cfg.Storage.MinioEndpoint != "minio:9000" {
		t.Errorf("storage config: %+v", cfg.Storage)
	}
	want := []string{"192.0.2.10", "192.0.2.11"}
	if len(cfg.Access.AllowedIPs) != len(want) {
		t.Fatalf("allow-list: got %v", cfg.Access.AllowedIPs)
	}
	for i := range want {
		if cfg.Access.AllowedIPs[i] != want[i] {
			t.Errorf("allow-list[%d]: got %s, want %s", i, cfg.Access.AllowedIPs[i], want[i])
		}
	}
}
