// internal/app/features/chat/handler.go
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/vhht/vhhtbot/internal/app/assistant/pipeline"
	"github.com/vhht/vhhtbot/internal/app/system/auth"
	"github.com/vhht/vhhtbot/internal/app/system/htmlsanitize"
	"github.com/vhht/vhhtbot/internal/app/system/limits"
	"github.com/vhht/vhhtbot/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// TransportHTTP labels turns arriving through POST /chat.
const TransportHTTP = "http"

const (
	errBadRequest  = "Yêu cầu không hợp lệ."
	errEmpty       = "Tin nhắn không được để trống."
	errTooLong     = "Tin nhắn quá dài."
	errUnavailable = "Đã có lỗi xảy ra, anh/chị thử lại sau nha."
)

// Converser handles one turn of a conversation.
type Converser interface {
	Converse(ctx context.Context, id string, in pipeline.Input) (pipeline.Reply, error)
}

// Handler serves the chat endpoint.
type Handler struct {
	Conv     Converser
	Sessions *auth.SessionManager
	Limiter  *ratelimit.ChatLimiter
	// TrustBodyUserID accepts user_id from the request body when the
	// bearer token carries none. Development only.
	TrustBodyUserID bool
	Log             *zap.Logger
}

// NewHandler creates a chat Handler. limiter may be nil.
func NewHandler(conv Converser, sessions *auth.SessionManager, limiter *ratelimit.ChatLimiter, trustBodyUserID bool, logger *zap.Logger) *Handler {
	return &Handler{
		Conv:            conv,
		Sessions:        sessions,
		Limiter:         limiter,
		TrustBodyUserID: trustBodyUserID,
		Log:             logger,
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
	Intent         string `json:"intent"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Serve handles POST /chat.
//
// Request:
//
//	{ "message":"...", "user_id":"...", "conversation_id":"..." }
//
// plus an optional "Authorization: Bearer <jwt>". On success: 200 and
//
//	{ "reply":"...", "conversation_id":"...", "intent":"campaign_lookup" }
//
// Otherwise 400, 429 or 500 with { "error":"..." }.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxChatBodySize))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errBadRequest})
		return
	}

	text := htmlsanitize.PlainText(req.Message)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errEmpty})
		return
	}
	if utf8.RuneCountInString(text) > limits.MaxMessageRunes {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errTooLong})
		return
	}

	in := pipeline.Input{Text: text, Transport: TransportHTTP}
	if id, ok := auth.CurrentIdentity(r); ok {
		in.UserID, in.Token = id.UserID, id.Token
	}
	if in.UserID == "" && h.TrustBodyUserID {
		in.UserID = strings.TrimSpace(req.UserID)
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, in.UserID); !ok {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: msg})
			return
		}
	}

	convID := strings.TrimSpace(req.ConversationID)
	if len(convID) > limits.MaxConversationIDLen {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errBadRequest})
		return
	}
	if convID == "" && h.Sessions != nil {
		convID = h.Sessions.ConversationID(w, r)
	}

	reply, err := h.Conv.Converse(r.Context(), convID, in)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.Log.Debug("chat turn canceled by client", zap.String("conversation_id", convID))
			return
		}
		h.Log.Error("chat turn failed", zap.String("conversation_id", convID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errUnavailable})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:          reply.Text,
		ConversationID: convID,
		Intent:         string(reply.Intent),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
