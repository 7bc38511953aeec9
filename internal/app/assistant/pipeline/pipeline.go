// internal/app/assistant/pipeline/pipeline.go

// Package pipeline routes one chat turn to exactly one handling path.
//
// Paths are an ordered table of rules. The first rule whose predicate
// matches handles the turn. The last rule always matches, so selection is
// total. Conversation state is passed in and returned; the pipeline holds
// no state of its own.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vhht/vhhtbot/internal/app/assistant/actions"
	"github.com/vhht/vhhtbot/internal/app/assistant/classify"
	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/assistant/extract"
	"github.com/vhht/vhhtbot/internal/app/assistant/registration"
	"github.com/vhht/vhhtbot/internal/app/assistant/taskquery"
	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"github.com/vhht/vhhtbot/internal/app/system/normalize"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Intent is the handling path selected for a turn.
type Intent string

const (
	IntentTaskQuery              Intent = "task_query"
	IntentScriptedAction         Intent = "scripted_action"
	IntentRegistration           Intent = "registration"
	IntentStructuredQuery        Intent = "structured_query"
	IntentCampaignLookup         Intent = "campaign_lookup"
	IntentConversationalFallback Intent = "conversational_fallback"
)

// Fixed replies owned by the pipeline.
const (
	StoreErrorReply = "Không thể kết nối dữ liệu."
	NoCampaignReply = "Em chưa biết anh/chị đang hỏi về chiến dịch nào 🤔 Anh/chị nói rõ tên chiến dịch giúp em nha!"
)

// Input is one inbound message.
type Input struct {
	Text string
	// UserID is the caller's user id hex, empty when anonymous.
	UserID string
	// Token is the caller's bearer token, forwarded on registration.
	Token string
	// Transport names the channel the message came from ("http", "telegram").
	Transport string
}

// Turn is what a rule sees: the input, its normalized text and the
// conversation state at the start of the turn.
type Turn struct {
	Input      Input
	Normalized string
	State      models.Conversation
}

// Reply is the outcome of one turn. State is the conversation state to
// persist for the next turn.
type Reply struct {
	Text   string
	Intent Intent
	State  models.Conversation
}

// Rule is one entry of the routing table.
type Rule struct {
	Intent Intent
	Match  func(t Turn) bool
	Handle func(ctx context.Context, t Turn) (Reply, error)
}

// TaskAnswerer answers "my tasks" queries.
type TaskAnswerer interface {
	Answer(ctx context.Context, userID string, scope taskquery.Scope) taskquery.Result
}

// Registrar performs campaign registrations.
type Registrar interface {
	Register(ctx context.Context, token, name string) registration.Result
}

// ContextSource renders data summaries for prompts.
type ContextSource interface {
	Summarize(ctx context.Context, collection string, filter bson.M, limit int64) (contextbuild.Summary, error)
	BuildCampaignContext(ctx context.Context, c models.Campaign) string
}

// CampaignFinder resolves campaigns by name or by stored id.
type CampaignFinder interface {
	FindByName(ctx context.Context, name string, approvedOnly bool) (models.Campaign, error)
	GetByHex(ctx context.Context, hex string) (models.Campaign, error)
}

// Responder turns a prompt into reply text. It never fails.
type Responder interface {
	Respond(ctx context.Context, prompt string) string
}

// StateStore persists conversation state between turns.
type StateStore interface {
	Load(ctx context.Context, id string) (models.Conversation, error)
	Save(ctx context.Context, conv models.Conversation) error
}

// Deps are the collaborators of a Pipeline. Extractor, Actions and
// Classifier default to their standard tables when nil.
type Deps struct {
	Extractor  extract.Extractor
	Actions    *actions.Matcher
	Classifier *classify.Classifier

	Tasks     TaskAnswerer
	Registrar Registrar
	Context   ContextSource
	Campaigns CampaignFinder
	Responder Responder
	States    StateStore

	Logger *zap.Logger
}

// Pipeline handles chat turns.
type Pipeline struct {
	d     Deps
	log   *zap.Logger
	rules []Rule
}

// New builds a Pipeline with the standard rule table.
func New(d Deps) *Pipeline {
	if d.Extractor == nil {
		d.Extractor = extract.Default()
	}
	if d.Actions == nil {
		d.Actions = actions.Default()
	}
	if d.Classifier == nil {
		d.Classifier = classify.Default()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	p := &Pipeline{d: d, log: d.Logger}
	p.rules = p.defaultRules()
	return p
}

// Rules returns the routing table in evaluation order.
func (p *Pipeline) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Handle routes one turn. Domain failures are recovered into the reply;
// a non-nil error means an unexpected fault.
func (p *Pipeline) Handle(ctx context.Context, in Input, state models.Conversation) (Reply, error) {
	t := Turn{Input: in, Normalized: normalize.Text(in.Text), State: state}

	for _, r := range p.rules {
		if !r.Match(t) {
			continue
		}
		reply, err := r.Handle(ctx, t)
		if err != nil {
			return Reply{}, fmt.Errorf("%s: %w", r.Intent, err)
		}
		reply.Intent = r.Intent
		transport := in.Transport
		if transport == "" {
			transport = "unknown"
		}
		metrics.Turns.WithLabelValues(string(r.Intent), transport).Inc()
		p.log.Debug("turn handled",
			zap.String("intent", string(r.Intent)),
			zap.String("conversation_id", state.ID),
			zap.String("campaign_id", reply.State.CampaignID))
		return reply, nil
	}
	// Unreachable: the fallback rule always matches.
	return Reply{}, fmt.Errorf("no rule matched")
}

// Converse loads the state of conversation id, handles the turn and saves
// the resulting state, which also restarts its idle expiry. A state store
// failure is logged and the turn goes
// ahead with empty state; it never fails the turn.
func (p *Pipeline) Converse(ctx context.Context, id string, in Input) (Reply, error) {
	state := models.Conversation{ID: id}
	if p.d.States != nil && id != "" {
		loaded, err := p.d.States.Load(ctx, id)
		if err != nil {
			metrics.StoreErrors.WithLabelValues("conversations.load").Inc()
			p.log.Warn("load conversation state", zap.String("conversation_id", id), zap.Error(err))
		} else {
			state = loaded
			state.ID = id
		}
	}

	reply, err := p.Handle(ctx, in, state)
	if err != nil {
		return Reply{}, err
	}
	reply.State.ID = id

	if p.d.States != nil && id != "" {
		if err := p.d.States.Save(ctx, reply.State); err != nil {
			metrics.StoreErrors.WithLabelValues("conversations.save").Inc()
			p.log.Warn("save conversation state", zap.String("conversation_id", id), zap.Error(err))
		}
	}
	return reply, nil
}
