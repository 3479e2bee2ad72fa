// Package config reads streammap settings from .streammap.yaml, the
// environment and .env files.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/streammap/pkg/geo"
	"tableflip.dev/streammap/pkg/store"
)

const (
	envPrefix     = "STREAMMAP"
	configName    = ".streammap" // .yaml is implicit
	configPathEnv = "STREAMMAP_CONFIG_PATH"
)

// redis.addr is read from STREAMMAP_REDIS_ADDR.
var envKeys = strings.NewReplacer(".", "_")

// Config is the resolved configuration.
type Config struct {
	Backend   string
	Path      string
	Blob      string
	SQLiteDSN string
	Redis     store.RedisOptions

	NominatimURL string
	IPAPIURL     string
	UserAgent    string
	Timeout      time.Duration
	// Offline resolves places against the built in gazetteer only.
	Offline bool
	// Reverse enables place names for device fixes.
	Reverse bool
	// Device, when set, is used instead of IP based location.
	Device *geo.Coordinates
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", store.BackendDiskv)
	v.SetDefault("path", "~/.streammap")
	v.SetDefault("blob", store.DefaultBlobName)
	v.SetDefault("sqlite.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "streammap:")
	v.SetDefault("geo.nominatim_url", geo.DefaultNominatimURL)
	v.SetDefault("geo.ipapi_url", geo.DefaultIPAPIURL)
	v.SetDefault("geo.user_agent", geo.DefaultUserAgent)
	v.SetDefault("geo.timeout", "10s")
	v.SetDefault("geo.offline", false)
	v.SetDefault("geo.reverse", true)
	v.SetDefault("device.latitude", "")
	v.SetDefault("device.longitude", "")
}

// Load reads configuration into the global viper instance. A .env file in
// the working directory is applied to the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration into v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetConfigName(configName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	if override := os.Getenv(configPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper converts already loaded settings.
func FromViper(v *viper.Viper) (*Config, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expanding path: %w", err)
	}

	c := &Config{
		Backend:   v.GetString("backend"),
		Path:      path,
		Blob:      v.GetString("blob"),
		SQLiteDSN: v.GetString("sqlite.dsn"),
		Redis: store.RedisOptions{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		NominatimURL: v.GetString("geo.nominatim_url"),
		IPAPIURL:     v.GetString("geo.ipapi_url"),
		UserAgent:    v.GetString("geo.user_agent"),
		Timeout:      v.GetDuration("geo.timeout"),
		Offline:      v.GetBool("geo.offline"),
		Reverse:      v.GetBool("geo.reverse"),
	}

	lat, lon := v.GetString("device.latitude"), v.GetString("device.longitude")
	if lat != "" || lon != "" {
		pos, err := geo.ParseCoordinates(lat, lon)
		if err != nil {
			return nil, fmt.Errorf("config: device position: %w", err)
		}
		if !pos.Valid() {
			return nil, fmt.Errorf("config: device position %s out of range", pos)
		}
		c.Device = &pos
	}
	return c, nil
}
