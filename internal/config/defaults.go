package config

import "time"

// Telegram defaults
const (
	DefaultBotUpdateTimeout  = 60
	DefaultBotRequestTimeout = 5 * time.Second
)

// Server defaults
const (
	DefaultHTTPPort = "8080"
	DefaultGinMode  = "release"
	DefaultLogLevel = "info"
)

// Database defaults
const (
	DefaultDBHost            = "localhost"
	DefaultDBPort            = 5432
	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBName            = "hom_db"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxOpenConns    = 25
	DefaultDBMaxIdleConns    = 5
	DefaultDBConnMaxLifetime = 5 * time.Minute
	DefaultDBConnectRetries  = 30
	DefaultDBConnectInterval = 2 * time.Second
)

// Kafka defaults
const (
	DefaultKafkaTopic              = "large-operations"
	DefaultKafkaOperationThreshold = "100000"
)

// Parser defaults
const (
	DefaultIncomeCategories = "зарплата,аванс,пополнение,доход,премия"
)
