package common

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/util"
	"github.com/APTrust/pharos/util/logger"
	"github.com/op/go-logging"
	"github.com/spf13/viper"
)

type Config struct {
	AlertTopic         string
	ConfigName         string
	DBDriver           string
	DBDSN              string
	DefaultPerPage     int
	HTTPPort           int
	LogDir             string
	LogLevel           logging.Level
	MaxPerPage         int
	NsqdTCPAddress     string
	NsqURL             string
	PidFile            string
	PresignedURLExpiry time.Duration
	RedisDefaultDB     int
	RedisPassword      string
	RedisURL           string
	S3Host             string
	S3Key              string
	S3Secret           string
	S3UseSSL           bool
	SessionTTL         time.Duration
	TwoFactorTimeout   int
	TwoFactorTopic     string
	TwoFactorSecret    string
}

// NewConfig returns a new config based on env vars PHAROS_CONFIG_DIR
// and PHAROS_ENV. It loads settings from .env.<PHAROS_ENV> in the
// config dir.
func NewConfig() *Config {
	configDir, envName := getEnvVars()
	config, err := LoadConfig(configDir, envName)
	if err != nil {
		panic(err)
	}
	return config
}

// LoadConfig loads .env.<envName> from configDir.
func LoadConfig(configDir, envName string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	setDefaults(v)
	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("Fatal error config file: %w", err)
	}
	config := configFromViper(v, envName)
	if err = config.expandPaths(); err != nil {
		return nil, err
	}
	if err = config.makeDirs(); err != nil {
		return nil, err
	}
	return config, config.sanityCheck()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ALERT_TOPIC", constants.AlertTopicDefault)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DEFAULT_PER_PAGE", constants.DefaultPerPage)
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("MAX_PER_PAGE", constants.DefaultMaxPerPage)
	v.SetDefault("PRESIGNED_URL_EXPIRY", "24h")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("TWO_FACTOR_TIMEOUT", constants.DefaultTwoFactorTTL)
	v.SetDefault("TWO_FACTOR_TOPIC", constants.TwoFactorTopicDefault)
}

func configFromViper(v *viper.Viper, envName string) *Config {
	return &Config{
		AlertTopic:         v.GetString("ALERT_TOPIC"),
		ConfigName:         envName,
		DBDriver:           v.GetString("DB_DRIVER"),
		DBDSN:              v.GetString("DB_DSN"),
		DefaultPerPage:     v.GetInt("DEFAULT_PER_PAGE"),
		HTTPPort:           v.GetInt("HTTP_PORT"),
		LogDir:             v.GetString("LOG_DIR"),
		LogLevel:           logger.LevelFromString(v.GetString("LOG_LEVEL")),
		MaxPerPage:         v.GetInt("MAX_PER_PAGE"),
		NsqdTCPAddress:     v.GetString("NSQD_TCP_ADDRESS"),
		NsqURL:             v.GetString("NSQ_URL"),
		PidFile:            v.GetString("PID_FILE"),
		PresignedURLExpiry: v.GetDuration("PRESIGNED_URL_EXPIRY"),
		RedisDefaultDB:     v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisURL:           v.GetString("REDIS_URL"),
		S3Host:             v.GetString("S3_HOST"),
		S3Key:              v.GetString("S3_KEY"),
		S3Secret:           v.GetString("S3_SECRET"),
		S3UseSSL:           v.GetBool("S3_USE_SSL"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		TwoFactorTimeout:   v.GetInt("TWO_FACTOR_TIMEOUT"),
		TwoFactorTopic:     v.GetString("TWO_FACTOR_TOPIC"),
		TwoFactorSecret:    v.GetString("TWO_FACTOR_CALLBACK_SECRET"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("PHAROS_CONFIG_DIR")
	envName := getRequiredEnvVar("PHAROS_ENV")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() error {
	var err error
	if c.LogDir, err = util.ExpandTilde(c.LogDir); err != nil {
		return err
	}
	c.PidFile, err = util.ExpandTilde(c.PidFile)
	return err
}

// sanityCheck fixes pagination settings that would break the
// index pages and rejects settings the server can't run without.
func (c *Config) sanityCheck() error {
	if c.DefaultPerPage < 1 {
		c.DefaultPerPage = constants.DefaultPerPage
	}
	if c.MaxPerPage < c.DefaultPerPage {
		c.MaxPerPage = c.DefaultPerPage
	}
	if c.TwoFactorTimeout < 1 {
		c.TwoFactorTimeout = constants.DefaultTwoFactorTTL
	}
	if c.DBDSN == "" {
		return fmt.Errorf("Config %s is missing DB_DSN", c.ConfigName)
	}
	return nil
}

func (c *Config) makeDirs() error {
	if c.LogDir == "" {
		return nil
	}
	return os.MkdirAll(c.LogDir, 0755)
}

// ToJSON returns the config as JSON for logging at startup. Secrets
// are masked.
func (c *Config) ToJSON() string {
	copyOfConfig := *c
	copyOfConfig.RedisPassword = mask(c.RedisPassword)
	copyOfConfig.S3Secret = mask(c.S3Secret)
	copyOfConfig.TwoFactorSecret = mask(c.TwoFactorSecret)
	data, _ := json.Marshal(copyOfConfig)
	return string(data)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
