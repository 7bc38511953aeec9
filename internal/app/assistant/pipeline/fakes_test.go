package pipeline_test

import (
	"context"
	"strings"
	"sync"

	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/assistant/registration"
	"github.com/vhht/vhhtbot/internal/app/assistant/taskquery"
	campaignstore "github.com/vhht/vhhtbot/internal/app/store/campaigns"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTasks struct {
	calls  int
	userID string
	scope  taskquery.Scope
}

func (f *fakeTasks) Answer(_ context.Context, userID string, scope taskquery.Scope) taskquery.Result {
	f.calls++
	f.userID, f.scope = userID, scope
	if userID == "" {
		return taskquery.Result{Outcome: taskquery.NoIdentity, Reply: taskquery.NoIdentityReply}
	}
	return taskquery.Result{Outcome: taskquery.NoTasksAssigned, Reply: taskquery.NoTasksReply}
}

type fakeRegistrar struct {
	token, name string
	result      registration.Result
}

func (f *fakeRegistrar) Register(_ context.Context, token, name string) registration.Result {
	f.token, f.name = token, name
	return f.result
}

type fakeContext struct {
	summary    contextbuild.Summary
	err        error
	collection string
	filter     bson.M
	builtFor   []string
	summarizeN int
}

func (f *fakeContext) Summarize(_ context.Context, collection string, filter bson.M, _ int64) (contextbuild.Summary, error) {
	f.summarizeN++
	f.collection, f.filter = collection, filter
	return f.summary, f.err
}

func (f *fakeContext) BuildCampaignContext(_ context.Context, c models.Campaign) string {
	f.builtFor = append(f.builtFor, c.Name)
	return "Chiến dịch: " + c.Name
}

type fakeCampaigns struct {
	byName map[string]models.Campaign
	err    error
}

func newFakeCampaigns(cs ...models.Campaign) *fakeCampaigns {
	f := &fakeCampaigns{byName: map[string]models.Campaign{}}
	for _, c := range cs {
		f.byName[strings.ToLower(c.Name)] = c
	}
	return f
}

func (f *fakeCampaigns) FindByName(_ context.Context, name string, _ bool) (models.Campaign, error) {
	if f.err != nil {
		return models.Campaign{}, f.err
	}
	c, ok := f.byName[strings.ToLower(name)]
	if !ok {
		return models.Campaign{}, campaignstore.ErrNotFound
	}
	return c, nil
}

func (f *fakeCampaigns) GetByHex(_ context.Context, hex string) (models.Campaign, error) {
	if f.err != nil {
		return models.Campaign{}, f.err
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return models.Campaign{}, campaignstore.ErrInvalidID
	}
	for _, c := range f.byName {
		if c.ID == oid {
			return c, nil
		}
	}
	return models.Campaign{}, campaignstore.ErrNotFound
}

// echoResponder returns the prompt so tests can inspect what was sent.
type echoResponder struct {
	prompts []string
}

func (r *echoResponder) Respond(_ context.Context, prompt string) string {
	r.prompts = append(r.prompts, prompt)
	return "AI: " + prompt
}

type memStates struct {
	mu      sync.Mutex
	m       map[string]models.Conversation
	loadErr error
	saveErr error
}

func newMemStates() *memStates {
	return &memStates{m: map[string]models.Conversation{}}
}

func (s *memStates) Load(_ context.Context, id string) (models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return models.Conversation{}, s.loadErr
	}
	c, ok := s.m[id]
	if !ok {
		return models.Conversation{ID: id}, nil
	}
	return c, nil
}

func (s *memStates) Save(_ context.Context, c models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.m[c.ID] = c
	return nil
}

func campaignRaw(c models.Campaign) bson.Raw {
	b, err := bson.Marshal(c)
	if err != nil {
		panic(err)
	}
	return bson.Raw(b)
}
