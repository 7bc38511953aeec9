// internal/domain/models/phase.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Phase is a sub-period of a campaign. Phases carry no sequence field; they
// are presented in storage order.
type Phase struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaignId" json:"campaign_id"`
	Name       string             `bson:"name" json:"name"`
	StartDate  *time.Time         `bson:"startDate,omitempty" json:"start_date,omitempty"`
	EndDate    *time.Time         `bson:"endDate,omitempty" json:"end_date,omitempty"`
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`
}

// PhaseDay is one calendar day inside a phase.
type PhaseDay struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PhaseID primitive.ObjectID `bson:"phaseId" json:"phase_id"`
	Date    *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
}
