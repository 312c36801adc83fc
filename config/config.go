package config

import (
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

const (
	defaultPort         = 8000
	defaultPageSize     = 10
	defaultMaxImageSide = 1600
	defaultMaxBodySize  = "10M"
	defaultSessionTTL   = 24 * time.Hour
	defaultCookieName   = "blogicum_session"
	defaultMediaDir     = "./media"
	defaultMediaPrefix  = "/media"

	MediaDriverLocal = "local"
	MediaDriverMinIO = "minio"
)

type Config struct {
	App struct {
		Host         string
		Port         int
		PageSize     int
		MaxImageSide int
		MaxBodySize  string
	}
	Database struct {
		URL             string
		PoolSize        int
		MaxConnLifetime string
		LogQueries      bool
	}
	Session struct {
		Secret     string
		TTL        string
		CookieName string
		Secure     bool
	}
	Media struct {
		Driver    string
		Dir       string
		URLPrefix string
		MinIO     MinIO
	}
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Normalize fills in defaults and validates values that cannot be checked by the decoder.
func (c *Config) Normalize() error {
	if c.App.Port == 0 {
		c.App.Port = defaultPort
	}
	if c.App.PageSize < 1 {
		c.App.PageSize = defaultPageSize
	}
	if c.App.MaxImageSide < 1 {
		c.App.MaxImageSide = defaultMaxImageSide
	}
	if c.App.MaxBodySize == "" {
		c.App.MaxBodySize = defaultMaxBodySize
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = defaultCookieName
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Media.Driver == "" {
		c.Media.Driver = MediaDriverLocal
	}
	if c.Media.Dir == "" {
		c.Media.Dir = defaultMediaDir
	}
	if c.Media.URLPrefix == "" {
		c.Media.URLPrefix = defaultMediaPrefix
	}

	switch c.Media.Driver {
	case MediaDriverLocal, MediaDriverMinIO:
	default:
		return fmt.Errorf("unknown media driver %q", c.Media.Driver)
	}

	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	if _, err := c.PGOptions(); err != nil {
		return err
	}

	return nil
}

func (c *Config) SessionTTL() (time.Duration, error) {
	if c.Session.TTL == "" {
		return defaultSessionTTL, nil
	}

	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return 0, fmt.Errorf("failed to parse session TTL: %w", err)
	}

	return ttl, nil
}

// PGOptions builds go-pg connection options from the database section.
func (c *Config) PGOptions() (*pg.Options, error) {
	opt, err := pg.ParseURL(c.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	opt.MaxRetries = 3
	if c.Database.PoolSize > 0 {
		opt.PoolSize = c.Database.PoolSize
	}

	if c.Database.MaxConnLifetime != "" {
		lifetime, err := time.ParseDuration(c.Database.MaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database MaxConnLifetime: %w", err)
		}
		opt.MaxConnAge = lifetime
	}

	return opt, nil
}
