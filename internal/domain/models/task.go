// internal/domain/models/task.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task is a unit of work scheduled on a phase day.
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PhaseDayID    primitive.ObjectID `bson:"phaseDayId" json:"phase_day_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	AssignedUsers []AssignedUser     `bson:"assignedUsers,omitempty" json:"assigned_users,omitempty"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"` // in_progress | submitted | completed
}

// AssignedUser is embedded in Task.assignedUsers.
type AssignedUser struct {
	UserID primitive.ObjectID `bson:"userId" json:"user_id"`
}

// Department is a working group inside a campaign.
type Department struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaignId" json:"campaign_id"`
	Name       string             `bson:"name" json:"name"`
}
