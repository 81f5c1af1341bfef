package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	awspkg "epinera-marketplace/pkg/aws"
)

type Config struct {
	Port                string
	AppEnv              string
	RedisURL            string
	MongoURI            string
	MongoDB             string
	KafkaBrokers        []string
	KafkaTopic          string
	SNSTopicArn         string
	S3Bucket            string
	StripeSecretKey     string
	StripeWebhookSecret string
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		AppEnv:              getEnv("APP_ENV", "development"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		MongoURI:            os.Getenv("MONGO_URI"),
		MongoDB:             getEnv("MONGO_DB", "marketplace"),
		KafkaTopic:          getEnv("ORDER_TOPIC", "orders.created"),
		SNSTopicArn:         os.Getenv("ORDER_TOPIC_ARN"),
		S3Bucket:            os.Getenv("S3_BUCKET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			sm := awspkg.NewSecretsClient(awsCfg, "marketplace")

			if raw, err := sm.GetSecret(context.Background(), "DB_CREDENTIALS"); err == nil && raw != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(raw), &m); err == nil {
					for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOST", "POSTGRES_PORT"} {
						if v, ok := m[key]; ok && v != "" {
							os.Setenv(key, v)
						}
					}
				}
			}
			if raw, err := sm.GetSecret(context.Background(), "STRIPE"); err == nil && raw != "" {
				var m map[string]string
				if err := json.Unmarshal([]byte(raw), &m); err == nil {
					if v := m["STRIPE_SECRET_KEY"]; v != "" {
						cfg.StripeSecretKey = v
					}
					if v := m["STRIPE_WEBHOOK_SECRET"]; v != "" {
						cfg.StripeWebhookSecret = v
					}
				}
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
