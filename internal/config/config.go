package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is layered: defaults, then the optional TOML file, then the environment.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	PokeAPI  PokeAPIConfig  `toml:"pokeapi"`
}

type ServerConfig struct {
	Addr        string   `toml:"addr"`
	Env         string   `toml:"env"`       // "development" switches to console logging
	LogLevel    string   `toml:"log_level"` // debug, info, warn, error
	CORSOrigins []string `toml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver   string `toml:"driver"` // memory, postgres, mongo
	URL      string `toml:"url"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

type PokeAPIConfig struct {
	BaseURL    string  `toml:"base_url"`
	RPS        float64 `toml:"rps"`
	SpriteBase string  `toml:"sprite_base"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			Env:         "production",
			LogLevel:    "info",
			CORSOrigins: []string{"http://localhost:*"},
		},
		Database: DatabaseConfig{
			Driver:  "memory",
			MongoDB: "pokedrafter",
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:    "https://pokeapi.co/api/v2",
			RPS:        5,
			SpriteBase: "/src/assets/pokemon-sprites/sprites/pokemon",
		},
	}
}

func (c *Config) Development() bool { return c.Server.Env == "development" }

// Load reads .env (if present), CONFIG_FILE (if set) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("ADDR", &c.Server.Addr)
	str("APP_ENV", &c.Server.Env)
	str("LOG_LEVEL", &c.Server.LogLevel)
	str("DB_DRIVER", &c.Database.Driver)
	str("DATABASE_URL", &c.Database.URL)
	str("MONGO_URI", &c.Database.MongoURI)
	str("MONGO_DB", &c.Database.MongoDB)
	str("POKEAPI_BASE_URL", &c.PokeAPI.BaseURL)
	str("SPRITE_BASE", &c.PokeAPI.SpriteBase)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	if v, ok := lookup("POKEAPI_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POKEAPI_RPS: %w", err)
		}
		c.PokeAPI.RPS = rps
	}
	return nil
}
