package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

// Config splits settings the way the deployment does: Public comes from a
// yaml file checked into the repo, Private holds secrets and is sourced
// from environment variables only.
type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port             string   `yaml:"port"`
	LogLevel         string   `yaml:"log_level"`
	LogJSON          bool     `yaml:"log_json"`
	JwtTTL           Duration `yaml:"jwt_ttl"`
	BcryptCost       int      `yaml:"bcrypt_cost"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	SeedAdminEmail   string   `yaml:"seed_admin_email"`
	SeedAdminOrgName string   `yaml:"seed_admin_org_name"`
}

// Duration lets the yaml carry human-readable values like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	d.Duration = parsed
	return nil
}

type Private struct {
	Pg                Pg     `envPrefix:"PG_"`
	JwtSecret         string `env:"JWT_SECRET"`
	DevMode           bool   `env:"DEV_MODE" envDefault:"false"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

type Pg struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"charitymap"`
	Password string `env:"PASSWORD"`
	Dbname   string `env:"DBNAME" envDefault:"charitymap"`
}

// devJwtSecret is only ever used when DEV_MODE=true. Deployable builds
// must set JWT_SECRET or startup fails.
const devJwtSecret = "charitymap-dev-secret-do-not-deploy"

func (c *Config) JwtKey() string {
	return c.Private.JwtSecret
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL.Duration
}

func loadPublic(configPath string, output *Public) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file: %w", err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file: %w", err)
	}
	return nil
}

// Load reads the public yaml config and parses secrets from the
// environment. It refuses to start without a signing secret unless
// dev mode is explicitly enabled.
func Load(publicPath string) (*Config, error) {
	var public Public
	if err := loadPublic(publicPath, &public); err != nil {
		return nil, err
	}

	var private Private
	if err := env.Parse(&private); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}

	if private.JwtSecret == "" {
		if !private.DevMode {
			return nil, fmt.Errorf("JWT_SECRET is not set; set it or opt in with DEV_MODE=true")
		}
		private.JwtSecret = devJwtSecret
	}

	if public.JwtTTL.Duration == 0 {
		public.JwtTTL = Duration{24 * time.Hour}
	}
	if public.Port == "" {
		public.Port = "5000"
	}

	return &Config{Public: public, Private: private}, nil
}

func MustLoad(publicPath string) *Config {
	cfg, err := Load(publicPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// IsDevSecret reports whether the configured signing key is the insecure
// development fallback, so startup can log a warning.
func (c *Config) IsDevSecret() bool {
	return c.Private.JwtSecret == devJwtSecret
}
