package taskquery_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/assistant/taskquery"
	"github.com/vhht/vhhtbot/internal/app/system/timezones"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errNotFound = errors.New("not found")

type fakeStore struct {
	tasks     []models.Task
	tasksErr  error
	days      map[primitive.ObjectID]models.PhaseDay
	phases    map[primitive.ObjectID]models.Phase
	campaigns map[primitive.ObjectID]models.Campaign
	calls     int
	dayCalls  int
}

func (f *fakeStore) ListAssignedTo(_ context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	f.calls++
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	var out []models.Task
	for _, t := range f.tasks {
		for _, a := range t.AssignedUsers {
			if a.UserID == userID {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetDay(_ context.Context, id primitive.ObjectID) (models.PhaseDay, error) {
	f.calls++
	f.dayCalls++
	d, ok := f.days[id]
	if !ok {
		return models.PhaseDay{}, errNotFound
	}
	return d, nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Phase, error) {
	f.calls++
	p, ok := f.phases[id]
	if !ok {
		return models.Phase{}, errNotFound
	}
	return p, nil
}

type campaignsByID map[primitive.ObjectID]models.Campaign

func (c campaignsByID) GetByID(_ context.Context, id primitive.ObjectID) (models.Campaign, error) {
	v, ok := c[id]
	if !ok {
		return models.Campaign{}, errNotFound
	}
	return v, nil
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// fixture holds one campaign with one phase and days keyed by date string.
type fixture struct {
	store    *fakeStore
	user     primitive.ObjectID
	campaign models.Campaign
	phase    models.Phase
}

func newFixture() *fixture {
	c := models.Campaign{ID: primitive.NewObjectID(), Name: "Mùa Hè Xanh"}
	p := models.Phase{ID: primitive.NewObjectID(), CampaignID: c.ID, Name: "Triển khai"}
	return &fixture{
		store: &fakeStore{
			days:      map[primitive.ObjectID]models.PhaseDay{},
			phases:    map[primitive.ObjectID]models.Phase{p.ID: p},
			campaigns: map[primitive.ObjectID]models.Campaign{c.ID: c},
		},
		user:     primitive.NewObjectID(),
		campaign: c,
		phase:    p,
	}
}

func (f *fixture) addTask(title string, on *time.Time) models.Task {
	d := models.PhaseDay{ID: primitive.NewObjectID(), PhaseID: f.phase.ID, Date: on}
	f.store.days[d.ID] = d
	t := models.Task{
		ID:            primitive.NewObjectID(),
		PhaseDayID:    d.ID,
		Title:         title,
		AssignedUsers: []models.AssignedUser{{UserID: f.user}},
	}
	f.store.tasks = append(f.store.tasks, t)
	return t
}

// wednesday is 2025-06-04 10:00 in Vietnam; the week runs 06-02 .. 06-08.
var wednesday = time.Date(2025, time.June, 4, 3, 0, 0, 0, time.UTC)

func (f *fixture) service(t *testing.T) *taskquery.Service {
	t.Helper()
	loc, err := timezones.Load(timezones.Default)
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return taskquery.New(f.store, f.store, campaignsByID(f.store.campaigns),
		timezones.NewCalendar(loc), func() time.Time { return wednesday }, zap.NewNop())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		input     string
		wantScope taskquery.Scope
		wantOK    bool
	}{
		{"nhiệm vụ của tôi", taskquery.ScopeAll, true},
		{"cho xem nhiệm vụ hôm nay", taskquery.ScopeToday, true},
		{"task hôm nay", taskquery.ScopeToday, true},
		{"công việc tuần này của tôi", taskquery.ScopeWeek, true},
		{"hôm nay tôi có nhiệm vụ gì", taskquery.ScopeToday, true},
		{"tôi có nhiệm vụ gì", taskquery.ScopeAll, true},
		{"nhiệm vụ được giao của mình", taskquery.ScopeAll, true},
		{"làm sao để nhận nhiệm vụ", taskquery.ScopeAll, false},
		{"chiến dịch mùa hè xanh", taskquery.ScopeAll, false},
		{"", taskquery.ScopeAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scope, ok := taskquery.Detect(tt.input)
			if ok != tt.wantOK || (ok && scope != tt.wantScope) {
				t.Errorf("Detect(%q) = (%v, %v), want (%v, %v)", tt.input, scope, ok, tt.wantScope, tt.wantOK)
			}
		})
	}
}

func TestAnswer_NoIdentityTouchesNoStore(t *testing.T) {
	f := newFixture()
	f.addTask("Dọn rác", date(2025, time.June, 4))
	svc := f.service(t)

	got := svc.Answer(context.Background(), "", taskquery.ScopeToday)
	if got.Outcome != taskquery.NoIdentity || got.Reply != taskquery.NoIdentityReply {
		t.Errorf("got %+v, want NoIdentity", got)
	}
	if f.store.calls != 0 {
		t.Errorf("store calls: got %d, want 0", f.store.calls)
	}
}

func TestAnswer_InvalidIdentity(t *testing.T) {
	f := newFixture()
	svc := f.service(t)

	got := svc.Answer(context.Background(), "not-an-object-id", taskquery.ScopeAll)
	if got.Outcome != taskquery.InvalidIdentity {
		t.Errorf("Outcome: got %s, want %s", got.Outcome, taskquery.InvalidIdentity)
	}
	if f.store.calls != 0 {
		t.Errorf("store calls: got %d, want 0", f.store.calls)
	}
}

func TestAnswer_NoTasksAndStoreFailure(t *testing.T) {
	f := newFixture()
	svc := f.service(t)

	got := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeAll)
	if got.Outcome != taskquery.NoTasksAssigned || got.Reply != taskquery.NoTasksReply {
		t.Errorf("got %+v, want NoTasksAssigned", got)
	}

	f.store.tasksErr = errors.New("connection refused")
	got = svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeAll)
	if got.Outcome != taskquery.StoreFailure || got.Reply != taskquery.StoreFailureReply {
		t.Errorf("got %+v, want StoreFailure", got)
	}
}

func TestAnswer_WeekBoundariesInclusive(t *testing.T) {
	f := newFixture()
	f.addTask("Trước tuần", date(2025, time.June, 1))
	f.addTask("Thứ hai", date(2025, time.June, 2))
	f.addTask("Chủ nhật", date(2025, time.June, 8))
	f.addTask("Sau tuần", date(2025, time.June, 9))
	svc := f.service(t)

	got := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeWeek)
	if got.Outcome != taskquery.ScopedResult {
		t.Fatalf("Outcome: got %s, want %s (%q)", got.Outcome, taskquery.ScopedResult, got.Reply)
	}
	for _, want := range []string{"Thứ hai", "Chủ nhật"} {
		if !strings.Contains(got.Reply, want) {
			t.Errorf("reply missing boundary task %q:\n%s", want, got.Reply)
		}
	}
	for _, unwanted := range []string{"Trước tuần", "Sau tuần"} {
		if strings.Contains(got.Reply, unwanted) {
			t.Errorf("reply includes out-of-week task %q:\n%s", unwanted, got.Reply)
		}
	}
}

func TestAnswer_Today(t *testing.T) {
	f := newFixture()
	f.addTask("Phát nước", date(2025, time.June, 4))
	f.addTask("Dọn rác", date(2025, time.June, 5))
	svc := f.service(t)

	got := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeToday)
	want := "📋 Nhiệm vụ hôm nay của anh/chị:\n- Phát nước | Mùa Hè Xanh – Triển khai (04/06/2025)"
	if got.Reply != want {
		t.Errorf("Reply:\n%s\nwant:\n%s", got.Reply, want)
	}
}

func TestAnswer_ScopedEmpty(t *testing.T) {
	f := newFixture()
	f.addTask("Tuần sau", date(2025, time.June, 12))
	svc := f.service(t)

	today := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeToday)
	if today.Outcome != taskquery.ScopedEmpty || today.Reply != taskquery.TodayEmptyReply {
		t.Errorf("today: got %+v", today)
	}
	week := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeWeek)
	if week.Outcome != taskquery.ScopedEmpty || week.Reply != taskquery.WeekEmptyReply {
		t.Errorf("week: got %+v", week)
	}
}

func TestAnswer_CapsListing(t *testing.T) {
	f := newFixture()
	for i := 0; i < 7; i++ {
		f.addTask(fmt.Sprintf("Việc %d", i+1), date(2025, time.June, 3))
	}
	svc := f.service(t)

	got := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeAll)
	if n := strings.Count(got.Reply, "\n- "); n != taskquery.MaxListed {
		t.Errorf("listed: got %d, want %d", n, taskquery.MaxListed)
	}
	if !strings.HasSuffix(got.Reply, "... và 2 nhiệm vụ khác") {
		t.Errorf("missing overflow suffix:\n%s", got.Reply)
	}
}

func TestAnswer_BrokenChainDegrades(t *testing.T) {
	f := newFixture()
	// Dangling phase day.
	f.store.tasks = append(f.store.tasks, models.Task{
		ID:            primitive.NewObjectID(),
		PhaseDayID:    primitive.NewObjectID(),
		Title:         "Mồ côi",
		AssignedUsers: []models.AssignedUser{{UserID: f.user}},
	})
	// Day whose phase points at a missing campaign.
	orphanPhase := models.Phase{ID: primitive.NewObjectID(), CampaignID: primitive.NewObjectID(), Name: "Giai đoạn lạc"}
	f.store.phases[orphanPhase.ID] = orphanPhase
	d := models.PhaseDay{ID: primitive.NewObjectID(), PhaseID: orphanPhase.ID, Date: date(2025, time.June, 4)}
	f.store.days[d.ID] = d
	f.store.tasks = append(f.store.tasks, models.Task{
		ID:            primitive.NewObjectID(),
		PhaseDayID:    d.ID,
		Title:         "Thiếu chiến dịch",
		AssignedUsers: []models.AssignedUser{{UserID: f.user}},
	})
	svc := f.service(t)

	got := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeAll)
	if got.Outcome != taskquery.ScopedResult {
		t.Fatalf("Outcome: got %s, want %s", got.Outcome, taskquery.ScopedResult)
	}
	wantLines := []string{
		"- Mồ côi | " + contextbuild.UnknownCampaign + " – " + contextbuild.UnknownPhase + " (" + contextbuild.UnknownDate + ")",
		"- Thiếu chiến dịch | " + contextbuild.UnknownCampaign + " – Giai đoạn lạc (04/06/2025)",
	}
	for _, w := range wantLines {
		if !strings.Contains(got.Reply, w) {
			t.Errorf("missing %q in:\n%s", w, got.Reply)
		}
	}

	// A task with an unknown day never matches a dated scope.
	today := svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeToday)
	if strings.Contains(today.Reply, "Mồ côi") {
		t.Errorf("undated task listed for today:\n%s", today.Reply)
	}
}

func TestAnswer_CachesHopsPerQuery(t *testing.T) {
	f := newFixture()
	d := models.PhaseDay{ID: primitive.NewObjectID(), PhaseID: f.phase.ID, Date: date(2025, time.June, 4)}
	f.store.days[d.ID] = d
	for i := 0; i < 3; i++ {
		f.store.tasks = append(f.store.tasks, models.Task{
			ID:            primitive.NewObjectID(),
			PhaseDayID:    d.ID,
			Title:         fmt.Sprintf("Việc %d", i),
			AssignedUsers: []models.AssignedUser{{UserID: f.user}},
		})
	}
	svc := f.service(t)

	svc.Answer(context.Background(), f.user.Hex(), taskquery.ScopeAll)
	if f.store.dayCalls != 1 {
		t.Errorf("day lookups: got %d, want 1", f.store.dayCalls)
	}
}
