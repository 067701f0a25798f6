package dialect

import (
	"fmt"
	"net/url"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
)

// Config describes a database connection in dialect-neutral terms. It is
// typically loaded from a YAML document and resolved to a driver DSN with
// the DSN method.
type Config struct {
	// Dialect is one of SQLite, MySQL or Postgres.
	Dialect string `yaml:"dialect"`

	// Database is the database name, or the file path (":memory:" allowed)
	// for SQLite.
	Database string `yaml:"database"`

	// Host and Port locate the server for MySQL/Postgres. Port defaults to
	// the dialect's conventional port when zero.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Params holds extra driver parameters appended to the DSN.
	Params map[string]string `yaml:"params"`
}

// ParseConfig parses a YAML document into a Config.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("dialect: parse config: %w", err)
	}
	if _, err := Get(cfg.Dialect); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN resolves the config to the connection string expected by the dialect's
// database/sql driver.
func (c *Config) DSN() (string, error) {
	info, err := Get(c.Dialect)
	if err != nil {
		return "", err
	}
	port := c.Port
	if port == 0 {
		port = info.DefaultPort
	}
	switch c.Dialect {
	case SQLite:
		if c.Database == "" {
			return "", fmt.Errorf("dialect: sqlite config requires a database path")
		}
		dsn := c.Database
		if len(c.Params) > 0 {
			q := url.Values{}
			for k, v := range c.Params {
				q.Set(k, v)
			}
			dsn += "?" + q.Encode()
		}
		return dsn, nil
	case MySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.Host, port)
		mc.DBName = c.Database
		mc.ParseTime = true
		if len(c.Params) > 0 {
			mc.Params = make(map[string]string, len(c.Params))
			for k, v := range c.Params {
				mc.Params[k] = v
			}
		}
		return mc.FormatDSN(), nil
	case Postgres:
		u := &url.URL{
			Scheme: "postgres",
			Host:   fmt.Sprintf("%s:%d", c.Host, port),
			Path:   "/" + c.Database,
		}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		q := u.Query()
		for k, v := range c.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	return "", fmt.Errorf("dialect: unsupported dialect %q", c.Dialect)
}
