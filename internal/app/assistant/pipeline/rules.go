// internal/app/assistant/pipeline/rules.go
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/assistant/extract"
	"github.com/vhht/vhhtbot/internal/app/assistant/prompt"
	"github.com/vhht/vhhtbot/internal/app/assistant/registration"
	"github.com/vhht/vhhtbot/internal/app/assistant/taskquery"
	campaignstore "github.com/vhht/vhhtbot/internal/app/store/campaigns"
	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"github.com/vhht/vhhtbot/internal/app/system/timeouts"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const campaignHeading = "Thông tin chiến dịch:"

// defaultRules is the routing table. Order is precedence.
func (p *Pipeline) defaultRules() []Rule {
	return []Rule{
		{
			Intent: IntentTaskQuery,
			Match: func(t Turn) bool {
				_, ok := taskquery.Detect(t.Normalized)
				return ok
			},
			Handle: p.handleTaskQuery,
		},
		{
			Intent: IntentScriptedAction,
			Match: func(t Turn) bool {
				_, ok := p.d.Actions.Match(t.Normalized)
				return ok
			},
			Handle: p.handleScripted,
		},
		{
			Intent: IntentRegistration,
			Match: func(t Turn) bool {
				return registration.Detect(t.Normalized)
			},
			Handle: p.handleRegistration,
		},
		{
			Intent: IntentStructuredQuery,
			Match: func(t Turn) bool {
				_, ok := p.d.Classifier.Classify(t.Normalized)
				return ok
			},
			Handle: p.handleStructuredQuery,
		},
		{
			Intent: IntentCampaignLookup,
			Match: func(t Turn) bool {
				_, ok := p.d.Extractor.Extract(t.Normalized)
				return ok
			},
			Handle: p.handleCampaignLookup,
		},
		{
			Intent: IntentConversationalFallback,
			Match:  func(Turn) bool { return true },
			Handle: p.handleFallback,
		},
	}
}

func (p *Pipeline) handleTaskQuery(ctx context.Context, t Turn) (Reply, error) {
	scope, _ := taskquery.Detect(t.Normalized)
	jctx, cancel := timeouts.WithTimeout(ctx, timeouts.Join(), p.log, "taskquery.answer")
	defer cancel()

	res := p.d.Tasks.Answer(jctx, t.Input.UserID, scope)
	return Reply{Text: res.Reply, State: t.State}, nil
}

func (p *Pipeline) handleScripted(_ context.Context, t Turn) (Reply, error) {
	a, _ := p.d.Actions.Match(t.Normalized)
	return Reply{Text: a.Reply, State: t.State}, nil
}

func (p *Pipeline) handleRegistration(ctx context.Context, t Turn) (Reply, error) {
	m, _ := p.d.Extractor.Extract(t.Normalized)
	qctx, cancel := timeouts.WithTimeout(ctx, timeouts.Query(), p.log, "registration.register")
	defer cancel()

	res := p.d.Registrar.Register(qctx, t.Input.Token, m.Name)
	state := t.State
	if res.Campaign != nil {
		state = current(state, *res.Campaign)
	}
	return Reply{Text: res.Reply, State: state}, nil
}

func (p *Pipeline) handleStructuredQuery(ctx context.Context, t Turn) (Reply, error) {
	q, _ := p.d.Classifier.Classify(t.Normalized)

	qctx, cancel := timeouts.WithTimeout(ctx, timeouts.Query(), p.log, "summarize."+q.Name)
	summary, err := p.d.Context.Summarize(qctx, q.Collection, q.Filter, contextbuild.DefaultLimit)
	cancel()
	if err != nil {
		return p.storeError(t, "summarize."+q.Name, err), nil
	}
	if summary.Empty() {
		return Reply{Text: q.EmptyReply, State: t.State}, nil
	}

	state := t.State
	if q.SetsCurrent {
		var first models.Campaign
		if err := bson.Unmarshal(summary.Records[0], &first); err != nil {
			p.log.Warn("decode listed campaign", zap.String("query", q.Name), zap.Error(err))
		} else {
			state = current(state, first)
		}
	}

	text := p.d.Responder.Respond(ctx, prompt.Build(prompt.Parts{
		Heading:   q.Heading,
		Data:      summary.Text,
		Utterance: t.Input.Text,
	}))
	return Reply{Text: text, State: state}, nil
}

func (p *Pipeline) handleCampaignLookup(ctx context.Context, t Turn) (Reply, error) {
	m, _ := p.d.Extractor.Extract(t.Normalized)

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Lookup(), p.log, "campaigns.findByName")
	c, err := p.d.Campaigns.FindByName(lctx, m.Name, false)
	cancel()
	if errors.Is(err, campaignstore.ErrNotFound) {
		// "tham gia ..." is a weak marker; with a current campaign the
		// words after it are more likely part of a follow-up question.
		if m.Rule == extract.RuleJoinMarker && t.State.CampaignID != "" {
			p.log.Debug("join-marker name not found, using current campaign",
				zap.String("name", m.Name), zap.String("campaign_id", t.State.CampaignID))
			return p.handleFallback(ctx, t)
		}
		return Reply{Text: notFoundReply(m.Name), State: t.State}, nil
	}
	if err != nil {
		return p.storeError(t, "campaigns.findByName", err), nil
	}
	return p.answerAbout(ctx, t, c), nil
}

func (p *Pipeline) handleFallback(ctx context.Context, t Turn) (Reply, error) {
	if t.State.CampaignID == "" {
		return Reply{Text: NoCampaignReply, State: t.State}, nil
	}

	lctx, cancel := timeouts.WithTimeout(ctx, timeouts.Lookup(), p.log, "campaigns.getByHex")
	c, err := p.d.Campaigns.GetByHex(lctx, t.State.CampaignID)
	cancel()
	if errors.Is(err, campaignstore.ErrNotFound) || errors.Is(err, campaignstore.ErrInvalidID) {
		p.log.Info("current campaign no longer resolvable",
			zap.String("campaign_id", t.State.CampaignID), zap.Error(err))
		cleared := models.Conversation{ID: t.State.ID}
		return Reply{Text: NoCampaignReply, State: cleared}, nil
	}
	if err != nil {
		return p.storeError(t, "campaigns.getByHex", err), nil
	}
	return p.answerAbout(ctx, t, c), nil
}

// answerAbout builds the campaign context, makes c current and asks the
// responder.
func (p *Pipeline) answerAbout(ctx context.Context, t Turn, c models.Campaign) Reply {
	jctx, cancel := timeouts.WithTimeout(ctx, timeouts.Join(), p.log, "context.campaign")
	data := p.d.Context.BuildCampaignContext(jctx, c)
	cancel()

	text := p.d.Responder.Respond(ctx, prompt.Build(prompt.Parts{
		Heading:   campaignHeading,
		Data:      data,
		Utterance: t.Input.Text,
	}))
	return Reply{Text: text, State: current(t.State, c)}
}

func (p *Pipeline) storeError(t Turn, op string, err error) Reply {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	p.log.Error("data store failure", zap.String("operation", op), zap.Error(err))
	return Reply{Text: StoreErrorReply, State: t.State}
}

func current(state models.Conversation, c models.Campaign) models.Conversation {
	state.CampaignID = c.ID.Hex()
	state.CampaignName = c.Name
	return state
}

func notFoundReply(name string) string {
	return fmt.Sprintf("Em không tìm thấy chiến dịch tên **%s** 😢", name)
}
