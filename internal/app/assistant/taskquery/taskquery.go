// internal/app/assistant/taskquery/taskquery.go

// Package taskquery answers "my tasks", "tasks today" and "tasks this week"
// for an identified volunteer.
package taskquery

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vhht/vhhtbot/internal/app/assistant/contextbuild"
	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"github.com/vhht/vhhtbot/internal/app/system/timezones"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Scope narrows a task listing by calendar.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeToday
	ScopeWeek
)

func (s Scope) String() string {
	switch s {
	case ScopeToday:
		return "today"
	case ScopeWeek:
		return "week"
	default:
		return "all"
	}
}

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:nhiệm vụ|công việc|task)(?:\s+(?:gì|nào|được giao))?\s+(?:của tôi|của mình|của em|hôm nay|tuần này|trong tuần)`),
	regexp.MustCompile(`(?:hôm nay|tuần này)\s+(?:tôi|mình|em)\s+(?:có|phải làm|làm)\s+(?:nhiệm vụ|công việc|task|gì)`),
	regexp.MustCompile(`(?:tôi|mình|em)\s+(?:có|được giao)\s+(?:nhiệm vụ|công việc|task)\s+(?:gì|nào)`),
}

// Detect reports whether text asks for the caller's tasks and at which
// scope. text must already be normalized.
func Detect(text string) (Scope, bool) {
	for _, p := range patterns {
		if p.MatchString(text) {
			switch {
			case strings.Contains(text, "hôm nay"):
				return ScopeToday, true
			case strings.Contains(text, "tuần này"), strings.Contains(text, "trong tuần"):
				return ScopeWeek, true
			default:
				return ScopeAll, true
			}
		}
	}
	return ScopeAll, false
}

// Outcome is the terminal state of one task query.
type Outcome string

const (
	NoIdentity      Outcome = "no_identity"
	InvalidIdentity Outcome = "invalid_identity"
	NoTasksAssigned Outcome = "no_tasks_assigned"
	ScopedEmpty     Outcome = "scoped_empty"
	ScopedResult    Outcome = "scoped_result"
	StoreFailure    Outcome = "store_failure"
)

// MaxListed caps the tasks listed in one reply.
const MaxListed = 5

// Replies for terminal states without data.
const (
	NoIdentityReply      = "Anh/chị cần đăng nhập để em xem được nhiệm vụ của mình nha 🔐"
	InvalidIdentityReply = "Em không đọc được thông tin tài khoản của anh/chị 😵 Anh/chị đăng nhập lại giúp em nha!"
	NoTasksReply         = "Hiện anh/chị chưa được giao nhiệm vụ nào cả 🙌"
	TodayEmptyReply      = "Hôm nay anh/chị không có nhiệm vụ nào 🎉"
	WeekEmptyReply       = "Tuần này anh/chị không có nhiệm vụ nào 🎉"
	StoreFailureReply    = "Không thể kết nối dữ liệu."
)

// Result is the reply and the state that produced it.
type Result struct {
	Outcome Outcome
	Reply   string
}

// TaskReader finds the tasks assigned to a user.
type TaskReader interface {
	ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
}

// PhaseReader resolves phase days and phases by id.
type PhaseReader interface {
	GetDay(ctx context.Context, id primitive.ObjectID) (models.PhaseDay, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Phase, error)
}

// CampaignReader resolves campaigns by id.
type CampaignReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Campaign, error)
}

// Service runs task queries.
type Service struct {
	tasks     TaskReader
	phases    PhaseReader
	campaigns CampaignReader
	cal       timezones.Calendar
	now       func() time.Time
	log       *zap.Logger
}

// New creates a Service. now may be nil to use the wall clock.
func New(tasks TaskReader, phases PhaseReader, campaigns CampaignReader, cal timezones.Calendar, now func() time.Time, logger *zap.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		tasks:     tasks,
		phases:    phases,
		campaigns: campaigns,
		cal:       cal,
		now:       now,
		log:       logger,
	}
}

// entry is one task with its resolved chain.
type entry struct {
	title    string
	dayKey   string // "" when the day is unknown
	date     string
	phase    string
	campaign string
}

// Answer lists userID's tasks within scope. No store is touched when
// userID is empty or malformed.
func (s *Service) Answer(ctx context.Context, userID string, scope Scope) Result {
	if strings.TrimSpace(userID) == "" {
		return Result{Outcome: NoIdentity, Reply: NoIdentityReply}
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		s.log.Debug("malformed user id in task query", zap.String("user_id", userID))
		return Result{Outcome: InvalidIdentity, Reply: InvalidIdentityReply}
	}

	tasks, err := s.tasks.ListAssignedTo(ctx, oid)
	if err != nil {
		s.log.Error("list assigned tasks failed", zap.String("user_id", userID), zap.Error(err))
		metrics.StoreErrors.WithLabelValues("tasks.assigned").Inc()
		return Result{Outcome: StoreFailure, Reply: StoreFailureReply}
	}
	if len(tasks) == 0 {
		return Result{Outcome: NoTasksAssigned, Reply: NoTasksReply}
	}

	r := newResolver(s)
	now := s.now()
	var matched []entry
	for _, t := range tasks {
		e := r.resolve(ctx, t)
		switch scope {
		case ScopeToday:
			if e.dayKey == "" || !s.cal.IsToday(e.dayKey, now) {
				continue
			}
		case ScopeWeek:
			if e.dayKey == "" || !s.cal.InWeek(e.dayKey, now) {
				continue
			}
		}
		matched = append(matched, e)
	}

	if len(matched) == 0 {
		if scope == ScopeWeek {
			return Result{Outcome: ScopedEmpty, Reply: WeekEmptyReply}
		}
		return Result{Outcome: ScopedEmpty, Reply: TodayEmptyReply}
	}
	return Result{Outcome: ScopedResult, Reply: render(scope, matched)}
}

func render(scope Scope, entries []entry) string {
	var sb strings.Builder
	switch scope {
	case ScopeToday:
		sb.WriteString("📋 Nhiệm vụ hôm nay của anh/chị:")
	case ScopeWeek:
		sb.WriteString("📋 Nhiệm vụ tuần này của anh/chị:")
	default:
		sb.WriteString("📋 Nhiệm vụ của anh/chị:")
	}
	for i, e := range entries {
		if i == MaxListed {
			fmt.Fprintf(&sb, "\n... và %d nhiệm vụ khác", len(entries)-MaxListed)
			break
		}
		fmt.Fprintf(&sb, "\n- %s | %s – %s (%s)", e.title, e.campaign, e.phase, e.date)
	}
	return sb.String()
}

// resolver walks Task → PhaseDay → Phase → Campaign, caching each hop for
// the duration of one query.
type resolver struct {
	s         *Service
	days      map[primitive.ObjectID]*models.PhaseDay
	phases    map[primitive.ObjectID]*models.Phase
	campaigns map[primitive.ObjectID]*models.Campaign
}

func newResolver(s *Service) *resolver {
	return &resolver{
		s:         s,
		days:      map[primitive.ObjectID]*models.PhaseDay{},
		phases:    map[primitive.ObjectID]*models.Phase{},
		campaigns: map[primitive.ObjectID]*models.Campaign{},
	}
}

func (r *resolver) resolve(ctx context.Context, t models.Task) entry {
	log := r.s.log
	ref := t.ID.Hex()
	e := entry{
		title:    t.Title,
		date:     contextbuild.UnknownDate,
		phase:    contextbuild.UnknownPhase,
		campaign: contextbuild.UnknownCampaign,
	}
	if e.title == "" {
		e.title = contextbuild.Placeholder(log, "task.title", ref, contextbuild.NotAvailable, nil)
	}

	day, err := r.day(ctx, t.PhaseDayID)
	if err != nil {
		contextbuild.Placeholder(log, "task.phaseDay", ref, contextbuild.UnknownDate, err)
		return e
	}
	if day.Date != nil && !day.Date.IsZero() {
		e.dayKey = r.s.cal.StoredDayKey(*day.Date)
		e.date = timezones.Display(*day.Date)
	} else {
		contextbuild.Placeholder(log, "phaseDay.date", day.ID.Hex(), contextbuild.UnknownDate, nil)
	}

	phase, err := r.phase(ctx, day.PhaseID)
	if err != nil {
		contextbuild.Placeholder(log, "phaseDay.phase", day.ID.Hex(), contextbuild.UnknownPhase, err)
		return e
	}
	if phase.Name != "" {
		e.phase = phase.Name
	}

	c, err := r.campaign(ctx, phase.CampaignID)
	if err != nil {
		contextbuild.Placeholder(log, "phase.campaign", phase.ID.Hex(), contextbuild.UnknownCampaign, err)
		return e
	}
	if c.Name != "" {
		e.campaign = c.Name
	}
	return e
}

var errZeroRef = errors.New("empty reference")

func (r *resolver) day(ctx context.Context, id primitive.ObjectID) (*models.PhaseDay, error) {
	if id.IsZero() {
		return nil, errZeroRef
	}
	if d, ok := r.days[id]; ok {
		return d, nil
	}
	d, err := r.s.phases.GetDay(ctx, id)
	if err != nil {
		return nil, err
	}
	r.days[id] = &d
	return &d, nil
}

func (r *resolver) phase(ctx context.Context, id primitive.ObjectID) (*models.Phase, error) {
	if id.IsZero() {
		return nil, errZeroRef
	}
	if p, ok := r.phases[id]; ok {
		return p, nil
	}
	p, err := r.s.phases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.phases[id] = &p
	return &p, nil
}

func (r *resolver) campaign(ctx context.Context, id primitive.ObjectID) (*models.Campaign, error) {
	if id.IsZero() {
		return nil, errZeroRef
	}
	if c, ok := r.campaigns[id]; ok {
		return c, nil
	}
	c, err := r.s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.campaigns[id] = &c
	return &c, nil
}
