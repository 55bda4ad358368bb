package common

import (
	"fmt"

	"github.com/APTrust/pharos/network"
	"github.com/APTrust/pharos/store"
	"github.com/APTrust/pharos/util/logger"
	"github.com/op/go-logging"
	"gorm.io/gorm"
)

// Context holds the config and the long-lived clients the web app
// shares across requests.
type Context struct {
	Config        *Config
	DB            *gorm.DB
	Logger        *logging.Logger
	NSQClient     *network.NSQClient
	AlertProducer network.Publisher
	Presigner     *network.Presigner
	RedisClient   *network.RedisClient
}

// NewContext loads config from the environment and connects to
// everything. It panics if anything fails, since the app can't run
// without its services.
func NewContext() *Context {
	context, err := NewContextFromConfig(NewConfig())
	if err != nil {
		panic(err)
	}
	return context
}

func NewContextFromConfig(config *Config) (*Context, error) {
	_logger := getLogger(config)
	db, err := store.Open(config.DBDriver, config.DBDSN)
	if err != nil {
		return nil, err
	}
	producer, err := network.NewAlertProducer(config.NsqdTCPAddress)
	if err != nil {
		return nil, err
	}
	presigner, err := getPresigner(config)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:        config,
		DB:            db,
		Logger:        _logger,
		NSQClient:     network.NewNSQClient(config.NsqURL),
		AlertProducer: producer,
		Presigner:     presigner,
		RedisClient:   getRedisClient(config),
	}, nil
}

func getLogger(config *Config) *logging.Logger {
	logger, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return logger
}

func getRedisClient(config *Config) *network.RedisClient {
	return network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
}

func getPresigner(config *Config) (*network.Presigner, error) {
	client, err := network.NewS3Client(
		config.S3Host,
		config.S3Key,
		config.S3Secret,
		config.S3UseSSL)
	if err != nil {
		return nil, fmt.Errorf("Could not initialize S3 client: %w", err)
	}
	return network.NewPresigner(client, config.PresignedURLExpiry), nil
}

// Close releases connections. Call it on shutdown.
func (context *Context) Close() {
	if context.AlertProducer != nil {
		context.AlertProducer.Stop()
	}
	if context.RedisClient != nil {
		context.RedisClient.Close()
	}
	if context.DB != nil {
		if sqlDB, err := context.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
