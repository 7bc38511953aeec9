// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/robfig/cron/v3"
	"github.com/vhht/vhhtbot/internal/app/assistant/registration"
	"github.com/vhht/vhhtbot/internal/app/assistant/responder"
	"github.com/vhht/vhhtbot/internal/app/system/tasks"
	"github.com/vhht/vhhtbot/internal/app/system/timezones"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the assistant.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, llm_model, etc.
//   - Environment variables: VHHTBOT_MONGO_URI, VHHTBOT_LLM_MODEL, etc.
//   - Command-line flags: --mongo_uri, --llm_model, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "VHHT", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping budget"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "vhhtbot-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	// Identity
	{Name: "jwt_access_secret", Default: "", Desc: "HS256 secret for platform access tokens"},
	{Name: "trust_body_user_id", Default: false, Desc: "Accept user_id from the chat body (development only)"},

	// Platform backend
	{Name: "backend_url", Default: registration.DefaultBackendURL, Desc: "Platform REST API base URL"},
	{Name: "backend_timeout", Default: "10s", Desc: "Platform REST API request timeout"},

	// Completion provider
	{Name: "llm_provider", Default: "openai", Desc: "Completion provider: openai, anthropic or gemini"},
	{Name: "llm_api_key", Default: "", Desc: "Completion provider API key"},
	{Name: "llm_base_url", Default: "", Desc: "Completion provider base URL (blank for the provider default)"},
	{Name: "llm_model", Default: "gpt-4o-mini", Desc: "Completion model"},
	{Name: "llm_max_tokens", Default: 600, Desc: "Maximum reply tokens"},
	{Name: "llm_temperature", Default: "0.7", Desc: "Sampling temperature"},
	{Name: "llm_timeout", Default: "60s", Desc: "Completion timeout"},

	// Conversation state
	{Name: "conversation_store", Default: "mongo", Desc: "Conversation state store: 'mongo' or 'redis'"},
	{Name: "conversation_ttl", Default: "24h", Desc: "Idle lifetime of a conversation"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "purge_schedule", Default: tasks.DefaultPurgeSchedule, Desc: "Cron spec for purging stale conversations"},

	{Name: "timezone", Default: timezones.Default, Desc: "IANA time zone for today and this week"},
	{Name: "telegram_token", Default: "", Desc: "Telegram bot token (blank disables the Telegram transport)"},

	{Name: "rate_limit_per_ip", Default: 30, Desc: "Chat turns per minute per client IP"},
	{Name: "rate_limit_per_user", Default: 20, Desc: "Chat turns per minute per identified user"},

	{Name: "lookup_timeout", Default: "5s", Desc: "Single-document read timeout"},
	{Name: "query_timeout", Default: "10s", Desc: "Listing query timeout"},
	{Name: "join_timeout", Default: "20s", Desc: "Multi-collection read timeout"},

	{Name: "ensure_read_indexes", Default: false, Desc: "Create read indexes on platform collections at startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, VHHTBOT_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "VHHTBOT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	temperature, err := strconv.ParseFloat(strings.TrimSpace(appValues.String("llm_temperature")), 64)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("invalid llm_temperature: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		JWTAccessSecret: appValues.String("jwt_access_secret"),
		TrustBodyUserID: appValues.Bool("trust_body_user_id"),

		BackendURL:     strings.TrimRight(appValues.String("backend_url"), "/"),
		BackendTimeout: appValues.Duration("backend_timeout", 10*time.Second),

		LLMProvider:    strings.ToLower(appValues.String("llm_provider")),
		LLMAPIKey:      appValues.String("llm_api_key"),
		LLMBaseURL:     appValues.String("llm_base_url"),
		LLMModel:       appValues.String("llm_model"),
		LLMMaxTokens:   appValues.Int("llm_max_tokens"),
		LLMTemperature: temperature,
		LLMTimeout:     appValues.Duration("llm_timeout", 60*time.Second),

		ConversationStore: strings.ToLower(appValues.String("conversation_store")),
		ConversationTTL:   appValues.Duration("conversation_ttl", 24*time.Hour),
		RedisAddr:         appValues.String("redis_addr"),
		RedisPassword:     appValues.String("redis_password"),
		RedisDB:           appValues.Int("redis_db"),
		PurgeSchedule:     appValues.String("purge_schedule"),

		Timezone:      appValues.String("timezone"),
		TelegramToken: appValues.String("telegram_token"),

		RateLimitPerIP:   appValues.Int("rate_limit_per_ip"),
		RateLimitPerUser: appValues.Int("rate_limit_per_user"),

		LookupTimeout: appValues.Duration("lookup_timeout", 5*time.Second),
		QueryTimeout:  appValues.Duration("query_timeout", 10*time.Second),
		JoinTimeout:   appValues.Duration("join_timeout", 20*time.Second),

		EnsureReadIndexes: appValues.Bool("ensure_read_indexes"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(coreCfg.Env, appCfg)
}

// validateAppConfig checks the invariants that do not need the network.
func validateAppConfig(env string, appCfg AppConfig) error {
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	known := false
	for _, p := range responder.Providers {
		if appCfg.LLMProvider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("llm_provider must be one of %s, got %q", strings.Join(responder.Providers, ", "), appCfg.LLMProvider)
	}

	switch appCfg.ConversationStore {
	case "mongo":
	case "redis":
		if appCfg.RedisAddr == "" {
			return fmt.Errorf("conversation_store redis requires redis_addr")
		}
	default:
		return fmt.Errorf("conversation_store must be 'mongo' or 'redis', got %q", appCfg.ConversationStore)
	}

	if appCfg.ConversationTTL <= 0 {
		return fmt.Errorf("conversation_ttl must be positive")
	}
	if _, err := cron.ParseStandard(appCfg.PurgeSchedule); err != nil {
		return fmt.Errorf("invalid purge_schedule %q: %w", appCfg.PurgeSchedule, err)
	}
	if !timezones.Valid(appCfg.Timezone) {
		return fmt.Errorf("unknown timezone %q", appCfg.Timezone)
	}
	if appCfg.RateLimitPerIP <= 0 || appCfg.RateLimitPerUser <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	if env == "prod" {
		if appCfg.TrustBodyUserID {
			return fmt.Errorf("trust_body_user_id must be disabled in production")
		}
		if appCfg.JWTAccessSecret == "" {
			return fmt.Errorf("jwt_access_secret is required in production")
		}
		if strings.HasPrefix(appCfg.SessionKey, "dev-only") {
			return fmt.Errorf("session_key must be changed in production")
		}
	}
	return nil
}
