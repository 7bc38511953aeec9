package bootstrap

import (
	"strings"
	"testing"
	"time"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "VHHT",
		SessionKey:        "dev-only-change-me-please-0123456789ABCDEF",
		LLMProvider:       "openai",
		ConversationStore: "mongo",
		ConversationTTL:   24 * time.Hour,
		RedisAddr:         "localhost:6379",
		PurgeSchedule:     "*/15 * * * *",
		Timezone:          "Asia/Ho_Chi_Minh",
		RateLimitPerIP:    30,
		RateLimitPerUser:  20,
	}
}

func TestValidateAppConfig_AcceptsDefaults(t *testing.T) {
	if err := validateAppConfig("dev", validConfig()); err != nil {
		t.Fatalf("validateAppConfig: %v", err)
	}
}

func TestValidateAppConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		mutate func(*AppConfig)
		want   string
	}{
		{"empty database", "dev", func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"unknown provider", "dev", func(c *AppConfig) { c.LLMProvider = "cohere" }, "llm_provider"},
		{"unknown store", "dev", func(c *AppConfig) { c.ConversationStore = "memcached" }, "conversation_store"},
		{"redis without addr", "dev", func(c *AppConfig) {
			c.ConversationStore = "redis"
			c.RedisAddr = ""
		}, "redis_addr"},
		{"zero ttl", "dev", func(c *AppConfig) { c.ConversationTTL = 0 }, "conversation_ttl"},
		{"bad schedule", "dev", func(c *AppConfig) { c.PurgeSchedule = "every quarter" }, "purge_schedule"},
		{"bad timezone", "dev", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"zero rate limit", "dev", func(c *AppConfig) { c.RateLimitPerIP = 0 }, "rate limits"},
		{"trusted body in prod", "prod", func(c *AppConfig) {
			c.JWTAccessSecret = "s"
			c.SessionKey = "a-real-production-key-0123456789abcdef"
			c.TrustBodyUserID = true
		}, "trust_body_user_id"},
		{"missing secret in prod", "prod", func(c *AppConfig) {
			c.SessionKey = "a-real-production-key-0123456789abcdef"
		}, "jwt_access_secret"},
		{"dev session key in prod", "prod", func(c *AppConfig) { c.JWTAccessSecret = "s" }, "session_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(tt.env, cfg)
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateAppConfig_RedisStore(t *testing.T) {
	cfg := validConfig()
	cfg.ConversationStore = "redis"
	if err := validateAppConfig("dev", cfg); err != nil {
		t.Fatalf("validateAppConfig: %v", err)
	}
}
