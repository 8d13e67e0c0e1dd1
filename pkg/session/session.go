// Package session provides database connection management and wires the
// collaborators a criteria resolves through its dependency container.
package session

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/querycraft/criteria/pkg/builder"
	"github.com/querycraft/criteria/pkg/cache"
	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/finder"
	"github.com/querycraft/criteria/pkg/model"
)

// Config holds the configuration for a session
type Config struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	// ConnMaxLifetime is expressed in seconds
	ConnMaxLifetime int `yaml:"conn_max_lifetime"`
	CacheSize       int `yaml:"cache_size"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Driver:       "postgres",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
		CacheSize:    cache.DefaultSize,
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields from the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Session manages the database handle and the wired collaborators. It
// implements core.Container.
type Session struct {
	config   *Config
	db       *sql.DB
	registry *model.Registry
	factory  *builder.Factory
	finder   *finder.Finder
}

// NewSession opens the configured database and wires the metadata registry,
// query-builder factory, result cache and finder.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newSession(cfg, db)
}

// NewSessionWithDB wires a session around an already-open database handle.
// The caller keeps ownership of the handle's lifecycle only until Close.
func NewSessionWithDB(cfg *Config, db *sql.DB) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if db == nil {
		return nil, fmt.Errorf("database handle is nil")
	}
	return newSession(cfg, db)
}

func newSession(cfg *Config, db *sql.DB) (*Session, error) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	registry := model.NewRegistry()
	factory := builder.NewFactory(registry,
		builder.WithPlaceholderFormat(placeholderFormat(cfg.Driver)))

	results, err := cache.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Session{
		config:   cfg,
		db:       db,
		registry: registry,
		factory:  factory,
		finder:   finder.New(db, factory, results),
	}, nil
}

// placeholderFormat picks the bind placeholder style for the driver
func placeholderFormat(driver string) sq.PlaceholderFormat {
	if driver == "postgres" {
		return sq.Dollar
	}
	return sq.Question
}

// Register registers models with the session's metadata registry
func (s *Session) Register(models ...any) error {
	for _, m := range models {
		if err := s.registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// RegisterAs registers a model under an explicit name
func (s *Session) RegisterAs(name string, m any) error {
	return s.registry.RegisterAs(name, m)
}

// ModelsMetadata returns the metadata provider
func (s *Session) ModelsMetadata() core.MetadataProvider {
	return s.registry
}

// ModelsManager returns the query-builder factory
func (s *Session) ModelsManager() core.BuilderFactory {
	return s.factory
}

// Finder returns the executing finder
func (s *Session) Finder() core.Finder {
	return s.finder
}

// DB returns the underlying database handle
func (s *Session) DB() *sql.DB {
	return s.db
}

// Config returns the session configuration
func (s *Session) Config() *Config {
	return s.config
}

// Close closes the database handle
func (s *Session) Close() error {
	return s.db.Close()
}
