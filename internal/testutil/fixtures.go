package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// CreateCampaign creates an approved, in-progress campaign with the given name.
func (f *Fixtures) CreateCampaign(ctx context.Context, name string) models.Campaign {
	f.t.Helper()
	return f.InsertCampaign(ctx, models.Campaign{
		Name:         name,
		Description:  "Chiến dịch thử nghiệm",
		StartDate:    Date(2025, time.June, 1),
		EndDate:      Date(2025, time.August, 31),
		Status:       models.CampaignInProgress,
		AcceptStatus: models.StatusApproved,
		Location:     models.Location{Type: "Point", Coordinates: []float64{106.7, 10.8}, Address: "TP. Hồ Chí Minh"},
	})
}

// InsertCampaign inserts c as-is, assigning an ID when missing.
func (f *Fixtures) InsertCampaign(ctx context.Context, c models.Campaign) models.Campaign {
	f.t.Helper()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := f.db.Collection(models.CollectionCampaigns).InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test campaign: %v", err)
	}
	return c
}

// CreatePhase creates a phase of the campaign spanning start..end.
func (f *Fixtures) CreatePhase(ctx context.Context, campaignID primitive.ObjectID, name string, start, end *time.Time) models.Phase {
	f.t.Helper()
	p := models.Phase{
		ID:         primitive.NewObjectID(),
		CampaignID: campaignID,
		Name:       name,
		StartDate:  start,
		EndDate:    end,
		Status:     models.CampaignUpcoming,
	}
	if _, err := f.db.Collection(models.CollectionPhases).InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test phase: %v", err)
	}
	return p
}

// CreatePhaseDay creates a day inside the phase.
func (f *Fixtures) CreatePhaseDay(ctx context.Context, phaseID primitive.ObjectID, date *time.Time) models.PhaseDay {
	f.t.Helper()
	d := models.PhaseDay{
		ID:      primitive.NewObjectID(),
		PhaseID: phaseID,
		Date:    date,
	}
	if _, err := f.db.Collection(models.CollectionPhaseDays).InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test phase day: %v", err)
	}
	return d
}

// CreateTask creates a task on the phase day assigned to the given users.
func (f *Fixtures) CreateTask(ctx context.Context, phaseDayID primitive.ObjectID, title string, assignees ...primitive.ObjectID) models.Task {
	f.t.Helper()
	task := models.Task{
		ID:         primitive.NewObjectID(),
		PhaseDayID: phaseDayID,
		Title:      title,
		Status:     "in_progress",
	}
	for _, id := range assignees {
		task.AssignedUsers = append(task.AssignedUsers, models.AssignedUser{UserID: id})
	}
	if _, err := f.db.Collection(models.CollectionTasks).InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateDepartment creates a department of the campaign.
func (f *Fixtures) CreateDepartment(ctx context.Context, campaignID primitive.ObjectID, name string) models.Department {
	f.t.Helper()
	d := models.Department{
		ID:         primitive.NewObjectID(),
		CampaignID: campaignID,
		Name:       name,
	}
	if _, err := f.db.Collection(models.CollectionDepartments).InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}
	return d
}

// CreateUser creates an active volunteer account.
func (f *Fixtures) CreateUser(ctx context.Context, fullName string, skills ...string) models.User {
	f.t.Helper()
	u := models.User{
		ID:       primitive.NewObjectID(),
		FullName: fullName,
		Skills:   skills,
		Role:     "user",
		Status:   "active",
	}
	if _, err := f.db.Collection(models.CollectionUsers).InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
