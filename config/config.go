package config

import (
	"errors"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port  string `env:"PORT" envDefault:"8080"`
	DBURL string `env:"DB_URL,required,notEmpty"`

	DBMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	// Operator account seeded on startup.
	AppUsername string `env:"APP_USERNAME"`
	AppPassword string `env:"APP_PASSWORD"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	RecurrenceFollowUps int    `env:"RECURRENCE_FOLLOW_UPS" envDefault:"4"`
	RenewalCron         string `env:"RENEWAL_CRON"`
	ReminderCron        string `env:"REMINDER_CRON"`

	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber    string `env:"TWILIO_PHONE_NUMBER"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`

	ProfilePath   string `env:"PRACTICE_PROFILE"`
	SlowRequestMS int    `env:"SLOW_REQUEST_MS" envDefault:"200"`

	Profile *PracticeProfile `env:"-"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse decodes the process environment without touching .env.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.RecurrenceFollowUps < 0 || cfg.RecurrenceFollowUps > 52 {
		return nil, errors.New("RECURRENCE_FOLLOW_UPS must be between 0 and 52")
	}

	profile, err := LoadProfile(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	cfg.Profile = profile
	return cfg, nil
}

func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		(c.TwilioPhoneNumber != "" || c.TwilioWhatsAppNumber != "")
}

func (c *Config) SlowRequestThreshold() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}
