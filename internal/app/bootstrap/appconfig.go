// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, logging, CORS); everything
// the assistant itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Platform database name (default: VHHT)
	MongoMaxPoolSize    uint64        // Max connection pool size
	MongoMinPoolSize    uint64        // Min connection pool size
	MongoConnectTimeout time.Duration // Budget for the initial connect and ping

	// Session cookie carrying the web conversation id
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name (default: vhhtbot-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Identity
	JWTAccessSecret string // HS256 secret shared with the platform backend
	TrustBodyUserID bool   // Accept user_id from the chat request body (development only)

	// Platform backend (registration)
	BackendURL     string        // Base URL of the platform REST API
	BackendTimeout time.Duration // Per-request budget for backend calls

	// Completion provider
	LLMProvider    string        // openai | anthropic | gemini
	LLMAPIKey      string        // Provider API key
	LLMBaseURL     string        // Optional base URL (OpenAI-compatible gateways)
	LLMModel       string        // Model name
	LLMMaxTokens   int           // Reply token cap
	LLMTemperature float64       // Sampling temperature
	LLMTimeout     time.Duration // Budget for one completion

	// Conversation state
	ConversationStore string        // mongo | redis
	ConversationTTL   time.Duration // Idle lifetime of a conversation
	RedisAddr         string        // Redis address when ConversationStore is redis
	RedisPassword     string
	RedisDB           int
	PurgeSchedule     string // Cron spec for the stale conversation purge

	// Calendar
	Timezone string // IANA zone used for "today" and "this week"

	// Telegram transport (disabled when empty)
	TelegramToken string

	// Chat rate limits, turns per minute
	RateLimitPerIP   int
	RateLimitPerUser int

	// Store timeouts
	LookupTimeout time.Duration
	QueryTimeout  time.Duration
	JoinTimeout   time.Duration

	// Create read indexes on the platform collections at startup
	EnsureReadIndexes bool
}
