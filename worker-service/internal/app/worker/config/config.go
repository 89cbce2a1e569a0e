package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config содержит все настройки worker-service
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	MongoDB      MongoConfig
	Kafka        KafkaConfig
	CronSchedule CronScheduleConfig
}

// ServerConfig - настройки HTTP сервера (healthcheck и метрики)
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки PostgreSQL для журнала аудита
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// MongoConfig - настройки MongoDB recipes-service.
// Аудит читает коллекции рецептов и оценок и чинит разъехавшиеся агрегаты.
type MongoConfig struct {
	URI      string
	Database string
}

// KafkaConfig - настройки подписки на события оценок
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

// CronScheduleConfig - расписание фоновых задач
type CronScheduleConfig struct {
	AuditSweep string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "worker_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		MongoDB: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database: getEnv("MONGODB_DATABASE", "recipes_service"),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC", "rating_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "worker-service-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6), // 10MB
		},
		CronSchedule: CronScheduleConfig{
			// По умолчанию сверяем агрегаты каждые 10 минут
			AuditSweep: getEnv("CRON_AUDIT_SWEEP", "*/10 * * * *"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
