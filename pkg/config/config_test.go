package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"tableflip.dev/streammap/pkg/geo"
	"tableflip.dev/streammap/pkg/store"
)

func TestDefaults(t *testing.T) {
	t.Setenv(configPathEnv, t.TempDir())

	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend != store.BackendDiskv || c.Blob != store.DefaultBlobName {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.Timeout != 10*time.Second || !c.Reverse || c.Offline {
		t.Fatalf("unexpected geo defaults %+v", c)
	}
	if c.Device != nil {
		t.Fatalf("no device position by default")
	}
	if filepath.Base(c.Path) != ".streammap" || !filepath.IsAbs(c.Path) {
		t.Fatalf("expected expanded home path, got %q", c.Path)
	}
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("backend: sqlite\nsqlite:\n  dsn: file:test.db\ngeo:\n  offline: true\ndevice:\n  latitude: \"39.19\"\n  longitude: \"-106.82\"\n")
	if err := os.WriteFile(filepath.Join(dir, ".streammap.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(configPathEnv, dir)
	t.Setenv("STREAMMAP_BLOB", "fromEnv")
	t.Setenv("STREAMMAP_REDIS_DB", "3")

	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend != store.BackendSQLite || c.SQLiteDSN != "file:test.db" {
		t.Fatalf("config file not applied: %+v", c)
	}
	if c.Blob != "fromEnv" || c.Redis.DB != 3 {
		t.Fatalf("env not applied: blob=%q db=%d", c.Blob, c.Redis.DB)
	}
	if c.Device == nil || c.Device.Latitude != 39.19 || c.Device.Longitude != -106.82 {
		t.Fatalf("device position not parsed: %+v", c.Device)
	}

	opts := c.StoreOptions()
	if opts.Backend != store.BackendSQLite || opts.BlobName != "fromEnv" {
		t.Fatalf("unexpected store options %+v", opts)
	}
}

func TestBadDevicePosition(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("device.latitude", "north")
	v.Set("device.longitude", "1")
	if _, err := FromViper(v); err == nil {
		t.Fatalf("expected an error for a bad latitude")
	}

	v.Set("device.latitude", "95")
	if _, err := FromViper(v); err == nil {
		t.Fatalf("expected an error for an out of range latitude")
	}
}

func TestOfflineResolver(t *testing.T) {
	pos := geo.Coordinates{Latitude: 1, Longitude: 2}
	r := (&Config{Offline: true, Device: &pos}).Resolver()

	if _, ok := r.Forwarder.(*geo.Gazetteer); !ok {
		t.Fatalf("offline forwarder should be the gazetteer, got %T", r.Forwarder)
	}
	if _, ok := r.Locator.(*geo.FixedLocator); !ok {
		t.Fatalf("expected fixed locator, got %T", r.Locator)
	}
	if !r.CanReverse() {
		t.Fatalf("gazetteer reverse expected offline")
	}
}

func TestOnlineResolver(t *testing.T) {
	r := (&Config{}).Resolver()
	if _, ok := r.Forwarder.(geo.Chain); !ok {
		t.Fatalf("expected chain, got %T", r.Forwarder)
	}
	if _, ok := r.Locator.(*geo.IPLocator); !ok {
		t.Fatalf("expected ip locator, got %T", r.Locator)
	}
	if _, ok := r.Reverser.(*geo.Nominatim); !ok {
		t.Fatalf("expected nominatim reverse, got %T", r.Reverser)
	}
}
