// internal/domain/models/campaign.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign lifecycle status values.
const (
	CampaignUpcoming   = "upcoming"
	CampaignInProgress = "in-progress"
	CampaignCompleted  = "completed"
)

// Approval status values shared by campaigns, volunteer participations and
// donation campaigns.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Campaign is a volunteer initiative. Only the fields the assistant reads are
// mapped; the platform backend owns the full document.
type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"end_date,omitempty"`

	Status       string `bson:"status,omitempty" json:"status,omitempty"`              // upcoming | in-progress | completed
	AcceptStatus string `bson:"acceptStatus,omitempty" json:"accept_status,omitempty"` // approved | pending | rejected

	Location   Location                 `bson:"location,omitempty" json:"location"`
	Volunteers []VolunteerParticipation `bson:"volunteers,omitempty" json:"volunteers,omitempty"`

	CertificatesIssued bool `bson:"certificatesIssued,omitempty" json:"certificates_issued"`
}

// Location is a GeoJSON point with an optional street address.
type Location struct {
	Type        string    `bson:"type,omitempty" json:"type,omitempty"`
	Coordinates []float64 `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
}

// VolunteerParticipation is embedded in Campaign.volunteers.
type VolunteerParticipation struct {
	User         *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Status       string              `bson:"status,omitempty" json:"status,omitempty"` // pending | approved | rejected
	Evaluation   string              `bson:"evaluation,omitempty" json:"evaluation,omitempty"`
	Feedback     string              `bson:"feedback,omitempty" json:"feedback,omitempty"`
	RegisteredAt *time.Time          `bson:"registeredAt,omitempty" json:"registered_at,omitempty"`
}
