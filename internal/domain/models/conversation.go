// internal/domain/models/conversation.go
package models

import "time"

// Conversation is the persisted per-conversation state: the campaign most
// recently discussed in that conversation.
type Conversation struct {
	ID           string    `bson:"_id" json:"id"`
	CampaignID   string    `bson:"campaign_id,omitempty" json:"campaign_id,omitempty"`
	CampaignName string    `bson:"campaign_name,omitempty" json:"campaign_name,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
