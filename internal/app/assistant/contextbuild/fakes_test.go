package contextbuild_test

import (
	"context"
	"errors"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

type fakeRecords struct {
	docs      map[string][]any
	err       error
	lastLimit int64
}

func (f *fakeRecords) Find(_ context.Context, collection string, _ bson.M, limit int64) ([]bson.Raw, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	var out []bson.Raw
	for i, d := range f.docs[collection] {
		if limit > 0 && int64(i) >= limit {
			break
		}
		raw, err := bson.Marshal(d)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

type fakePhases struct {
	byCampaign map[primitive.ObjectID][]models.Phase
	days       map[primitive.ObjectID][]models.PhaseDay
	phasesErr  error
	daysErr    error
}

func (f *fakePhases) ListByCampaign(_ context.Context, id primitive.ObjectID) ([]models.Phase, error) {
	if f.phasesErr != nil {
		return nil, f.phasesErr
	}
	return f.byCampaign[id], nil
}

func (f *fakePhases) ListDays(_ context.Context, id primitive.ObjectID) ([]models.PhaseDay, error) {
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	return f.days[id], nil
}

type fakeTasks struct {
	byDay map[primitive.ObjectID][]models.Task
	err   error
}

func (f *fakeTasks) ListByPhaseDay(_ context.Context, id primitive.ObjectID) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDay[id], nil
}

type fakeDepartments struct {
	byCampaign map[primitive.ObjectID][]models.Department
	err        error
}

func (f *fakeDepartments) ListByCampaign(_ context.Context, id primitive.ObjectID) ([]models.Department, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCampaign[id], nil
}
