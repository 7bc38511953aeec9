// internal/app/system/limits/limits.go
package limits

// Request size limits for the chat transports.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxChatBodySize is the maximum size of a POST /chat body.
	MaxChatBodySize = 16 << 10 // 16 KB

	// MaxMessageRunes is the longest accepted chat message, counted in
	// runes after markup is stripped.
	MaxMessageRunes = 2000

	// MaxConversationIDLen bounds client-supplied conversation ids.
	MaxConversationIDLen = 128
)
