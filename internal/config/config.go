package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

const (
	DefaultCapacity   = 15
	DefaultRecordKey  = "elitecore-cup-signups-v3"
	DefaultPort       = 8080
	DefaultRedisKey   = "cup:"
	DefaultFlowTTL    = 2 * time.Hour
	DefaultRateLimit  = 30
	DefaultRosterTab  = "Volunteers"
	DefaultSQLitePath = "cup_signups.db"
	DefaultMailer     = "gmail"
	configFileName    = "volunteer_config"
	dayTimeLayout     = "2006-01-02 15:04"
	envAdminCode      = "CUP_ADMIN_CODE"
	envAdminCodeHash  = "CUP_ADMIN_CODE_HASH"
	envFirebaseSecret = "CUP_FIREBASE_SECRET"
	envRedisPassword  = "CUP_REDIS_PASSWORD"
	envPostgresURL    = "CUP_POSTGRES_URL"
	envCSRFKey        = "CUP_CSRF_KEY"
	envResendAPIKey   = "CUP_RESEND_API_KEY"
)

// DayConfig describes one event day. Start and End use "2006-01-02 15:04" in the event timezone.
type DayConfig struct {
	Day         string `yaml:"day" validate:"required,oneof=thursday sunday"`
	Label       string `yaml:"label" validate:"required"`
	ShortLabel  string `yaml:"shortLabel" validate:"required"`
	TimeLabel   string `yaml:"timeLabel" validate:"required"`
	Role        string `yaml:"role" validate:"required"`
	Summary     string `yaml:"summary,omitempty"`
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description,omitempty"`
	Start       string `yaml:"start" validate:"required"`
	End         string `yaml:"end" validate:"required"`
}

// EventConfig holds the fixed parameters of the event
type EventConfig struct {
	Name      string      `yaml:"name" validate:"required"`
	Edition   string      `yaml:"edition,omitempty"`
	Venue     string      `yaml:"venue" validate:"required"`
	Address   string      `yaml:"address" validate:"required"`
	MapsURL   string      `yaml:"mapsURL,omitempty" validate:"omitempty,url"`
	Timezone  string      `yaml:"timezone" validate:"required"`
	Reminders []string    `yaml:"reminders,omitempty"`
	Notes     string      `yaml:"notes,omitempty"` // markdown
	Days      []DayConfig `yaml:"days" validate:"required,len=2,dive"`
}

type FirebaseConfig struct {
	DatabaseURL     string `yaml:"databaseURL,omitempty" validate:"omitempty,url"`
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
	Secret          string `yaml:"secret,omitempty"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty" validate:"min=0"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

type PostgresConfig struct {
	ConnString string `yaml:"connString,omitempty"`
}

type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// StoreConfig selects where the shared signup record lives
type StoreConfig struct {
	Backend        string         `yaml:"backend" validate:"required,oneof=firebase redis postgres sqlite memory"`
	RecordKey      string         `yaml:"recordKey,omitempty"`
	RequestTimeout string         `yaml:"requestTimeout,omitempty"`
	Firebase       FirebaseConfig `yaml:"firebase,omitempty"`
	Redis          RedisConfig    `yaml:"redis,omitempty"`
	Postgres       PostgresConfig `yaml:"postgres,omitempty"`
	SQLite         SQLiteConfig   `yaml:"sqlite,omitempty"`
}

// ServerConfig configures the web server started by the serve command
type ServerConfig struct {
	Port               int      `yaml:"port,omitempty" validate:"min=0,max=65535"`
	BaseURL            string   `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	CSRFKey            string   `yaml:"csrfKey,omitempty" validate:"omitempty,len=32"`
	TrustedOrigins     []string `yaml:"trustedOrigins,omitempty"`
	RateLimitPerMinute int      `yaml:"rateLimitPerMinute,omitempty" validate:"min=0"`
	FlowTTL            string   `yaml:"flowTTL,omitempty"`
}

// RosterConfig configures publishing and emailing the roster
type RosterConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
	Tab           string `yaml:"tab,omitempty"`
	Mailer        string `yaml:"mailer,omitempty" validate:"omitempty,oneof=gmail resend"`
	GmailSender   string `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	ResendAPIKey  string `yaml:"resendAPIKey,omitempty"`
	ResendFrom    string `yaml:"resendFrom,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Event             EventConfig  `yaml:"event"`
	Capacity          int          `yaml:"capacity,omitempty" validate:"min=0"`
	AdminPasscode     string       `yaml:"adminPasscode,omitempty"`
	AdminPasscodeHash string       `yaml:"adminPasscodeHash,omitempty"` // bcrypt, takes precedence over AdminPasscode
	Store             StoreConfig  `yaml:"store"`
	Server            ServerConfig `yaml:"server,omitempty"`
	Roster            RosterConfig `yaml:"roster,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from volunteer_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "volunteer_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, applies defaults and environment overrides, then validates
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields. An empty event section gets the default event.
func ApplyDefaults(cfg *Config) {
	if cfg.Event.Name == "" && len(cfg.Event.Days) == 0 {
		cfg.Event = DefaultEvent()
	}
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Store.RecordKey == "" {
		cfg.Store.RecordKey = DefaultRecordKey
	}
	if cfg.Store.Redis.KeyPrefix == "" {
		cfg.Store.Redis.KeyPrefix = DefaultRedisKey
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.RateLimitPerMinute == 0 {
		cfg.Server.RateLimitPerMinute = DefaultRateLimit
	}
	if cfg.Roster.Tab == "" {
		cfg.Roster.Tab = DefaultRosterTab
	}
	if cfg.Roster.Mailer == "" {
		cfg.Roster.Mailer = DefaultMailer
	}
}

func applyEnvOverrides(cfg *Config) {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.AdminPasscode, envAdminCode)
	override(&cfg.AdminPasscodeHash, envAdminCodeHash)
	override(&cfg.Store.Firebase.Secret, envFirebaseSecret)
	override(&cfg.Store.Redis.Password, envRedisPassword)
	override(&cfg.Store.Postgres.ConnString, envPostgresURL)
	override(&cfg.Server.CSRFKey, envCSRFKey)
	override(&cfg.Roster.ResendAPIKey, envResendAPIKey)
}

// Validate validates the configuration struct, the backend settings and the event days
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Store.Backend {
	case "firebase":
		if cfg.Store.Firebase.DatabaseURL == "" {
			return fmt.Errorf("config validation failed: store.firebase.databaseURL is required for the firebase backend")
		}
	case "redis":
		if cfg.Store.Redis.Addr == "" {
			return fmt.Errorf("config validation failed: store.redis.addr is required for the redis backend")
		}
	case "postgres":
		if cfg.Store.Postgres.ConnString == "" {
			return fmt.Errorf("config validation failed: store.postgres.connString (or %s) is required for the postgres backend", envPostgresURL)
		}
	}

	if cfg.Roster.Mailer == "resend" && (cfg.Roster.ResendAPIKey == "" || cfg.Roster.ResendFrom == "") {
		return fmt.Errorf("config validation failed: roster.resendAPIKey (or %s) and roster.resendFrom are required for the resend mailer", envResendAPIKey)
	}

	if cfg.AdminPasscodeHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AdminPasscodeHash)); err != nil {
			return fmt.Errorf("config validation failed: adminPasscodeHash is not a bcrypt hash: %w", err)
		}
	}

	for name, value := range map[string]string{
		"store.requestTimeout": cfg.Store.RequestTimeout,
		"server.flowTTL":       cfg.Server.FlowTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if _, err := cfg.BuildEvent(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	return nil
}

// BuildEvent converts the event section into the domain model
func (c *Config) BuildEvent() (model.Event, error) {
	loc, err := time.LoadLocation(c.Event.Timezone)
	if err != nil {
		return model.Event{}, fmt.Errorf("unknown timezone %q: %w", c.Event.Timezone, err)
	}

	event := model.Event{
		Name:      c.Event.Name,
		Edition:   c.Event.Edition,
		Venue:     c.Event.Venue,
		Address:   c.Event.Address,
		MapsURL:   c.Event.MapsURL,
		Reminders: c.Event.Reminders,
		Notes:     c.Event.Notes,
	}

	seen := make(map[model.Day]bool)
	for i, dc := range c.Event.Days {
		day, err := model.ParseDay(dc.Day)
		if err != nil {
			return model.Event{}, fmt.Errorf("days[%d]: %w", i, err)
		}
		if seen[day] {
			return model.Event{}, fmt.Errorf("days[%d]: duplicate day %q", i, day)
		}
		seen[day] = true

		start, err := time.ParseInLocation(dayTimeLayout, dc.Start, loc)
		if err != nil {
			return model.Event{}, fmt.Errorf("days[%d]: invalid start: %w", i, err)
		}
		end, err := time.ParseInLocation(dayTimeLayout, dc.End, loc)
		if err != nil {
			return model.Event{}, fmt.Errorf("days[%d]: invalid end: %w", i, err)
		}
		if !end.After(start) {
			return model.Event{}, fmt.Errorf("days[%d]: end must be after start", i)
		}

		event.Days = append(event.Days, model.EventDay{
			Day:         day,
			Label:       dc.Label,
			ShortLabel:  dc.ShortLabel,
			TimeLabel:   dc.TimeLabel,
			Role:        dc.Role,
			Summary:     dc.Summary,
			Title:       dc.Title,
			Description: dc.Description,
			Start:       start,
			End:         end,
		})
	}

	for _, d := range model.AllDays {
		if !seen[d] {
			return model.Event{}, fmt.Errorf("missing day %q", d)
		}
	}

	return event, nil
}

// RequestTimeout returns the per-call store timeout, zero meaning none
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Store.RequestTimeout)
	return d
}

// FlowTTL returns how long idle visitor state is kept
func (c *Config) FlowTTL() time.Duration {
	if d, err := time.ParseDuration(c.Server.FlowTTL); err == nil && d > 0 {
		return d
	}
	return DefaultFlowTTL
}

// findConfigFile searches for volunteer_config[.env].yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	name := configFileName + ".yaml"
	if env != "" {
		name = configFileName + "." + strings.ToLower(env) + ".yaml"
	}
	return findFile(name)
}
