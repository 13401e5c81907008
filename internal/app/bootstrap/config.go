package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	RedisURL          string
	ProfileBaseURL    string
	EnrollmentBaseURL string
	UpstreamToken     string

	KafkaBrokers                []string
	KafkaConsumerGroup          string
	KafkaTopicProfileUpdated    string
	KafkaTopicLearnerDeleted    string
	KafkaTopicSnapshotRefreshed string

	ConsumerPollInterval time.Duration

	SnapshotCacheTTL  time.Duration
	CacheKeyPrefix    string
	ProfileTimeout    time.Duration
	EnrollmentTimeout time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		RedisURL                    string   `yaml:"redis_url"`
		ProfileBaseURL              string   `yaml:"profile_base_url"`
		EnrollmentBaseURL           string   `yaml:"enrollment_base_url"`
		KafkaBrokers                []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup          string   `yaml:"kafka_consumer_group"`
		KafkaTopicProfileUpdated    string   `yaml:"kafka_topic_profile_updated"`
		KafkaTopicLearnerDeleted    string   `yaml:"kafka_topic_learner_deleted"`
		KafkaTopicSnapshotRefreshed string   `yaml:"kafka_topic_snapshot_refreshed"`
	} `yaml:"dependencies"`
	Cache struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		KeyPrefix  string `yaml:"key_prefix"`
	} `yaml:"cache"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                   "M12-Learner-Context-Service",
		HTTPPort:                    8080,
		GRPCPort:                    9090,
		KafkaConsumerGroup:          "m12-learner-context-service",
		KafkaTopicProfileUpdated:    "learner.profile_updated",
		KafkaTopicLearnerDeleted:    "learner.deleted",
		KafkaTopicSnapshotRefreshed: "learner.snapshot_refreshed",
		ConsumerPollInterval:        2 * time.Second,
		SnapshotCacheTTL:            30 * time.Minute,
		CacheKeyPrefix:              "learner_snapshot:",
		ProfileTimeout:              60 * time.Second,
		EnrollmentTimeout:           30 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Dependencies.ProfileBaseURL != "" {
			cfg.ProfileBaseURL = f.Dependencies.ProfileBaseURL
		}
		if f.Dependencies.EnrollmentBaseURL != "" {
			cfg.EnrollmentBaseURL = f.Dependencies.EnrollmentBaseURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicProfileUpdated != "" {
			cfg.KafkaTopicProfileUpdated = f.Dependencies.KafkaTopicProfileUpdated
		}
		if f.Dependencies.KafkaTopicLearnerDeleted != "" {
			cfg.KafkaTopicLearnerDeleted = f.Dependencies.KafkaTopicLearnerDeleted
		}
		if f.Dependencies.KafkaTopicSnapshotRefreshed != "" {
			cfg.KafkaTopicSnapshotRefreshed = f.Dependencies.KafkaTopicSnapshotRefreshed
		}
		if f.Cache.TTLMinutes > 0 {
			cfg.SnapshotCacheTTL = time.Duration(f.Cache.TTLMinutes) * time.Minute
		}
		if f.Cache.KeyPrefix != "" {
			cfg.CacheKeyPrefix = f.Cache.KeyPrefix
		}
	}

	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.ProfileBaseURL = envOrDefault("PROFILE_BASE_URL", cfg.ProfileBaseURL)
	cfg.EnrollmentBaseURL = envOrDefault("ENROLLMENT_BASE_URL", cfg.EnrollmentBaseURL)
	cfg.UpstreamToken = envOrDefault("UPSTREAM_BEARER_TOKEN", cfg.UpstreamToken)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicProfileUpdated = envOrDefault("KAFKA_TOPIC_PROFILE_UPDATED", cfg.KafkaTopicProfileUpdated)
	cfg.KafkaTopicLearnerDeleted = envOrDefault("KAFKA_TOPIC_LEARNER_DELETED", cfg.KafkaTopicLearnerDeleted)
	cfg.KafkaTopicSnapshotRefreshed = envOrDefault("KAFKA_TOPIC_SNAPSHOT_REFRESHED", cfg.KafkaTopicSnapshotRefreshed)
	cfg.CacheKeyPrefix = envOrDefault("CACHE_KEY_PREFIX", cfg.CacheKeyPrefix)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.SnapshotCacheTTL = time.Duration(envInt("SNAPSHOT_CACHE_MINUTES", int(cfg.SnapshotCacheTTL.Minutes()))) * time.Minute
	cfg.ProfileTimeout = time.Duration(envInt("PROFILE_TIMEOUT_SECONDS", int(cfg.ProfileTimeout.Seconds()))) * time.Second
	cfg.EnrollmentTimeout = time.Duration(envInt("ENROLLMENT_TIMEOUT_SECONDS", int(cfg.EnrollmentTimeout.Seconds()))) * time.Second

	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.ProfileBaseURL == "" {
		return Config{}, fmt.Errorf("missing PROFILE_BASE_URL")
	}
	if cfg.EnrollmentBaseURL == "" {
		return Config{}, fmt.Errorf("missing ENROLLMENT_BASE_URL")
	}
	if cfg.UpstreamToken == "" {
		return Config{}, fmt.Errorf("missing UPSTREAM_BEARER_TOKEN")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
