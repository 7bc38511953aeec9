// internal/domain/models/donation.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DonationCampaign is a fundraising drive, optionally linked to a Campaign.
type DonationCampaign struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	CampaignID     *primitive.ObjectID `bson:"campaignId,omitempty" json:"campaign_id,omitempty"`
	GoalAmount     float64             `bson:"goalAmount" json:"goal_amount"`
	CurrentAmount  float64             `bson:"currentAmount" json:"current_amount"`
	ApprovalStatus string              `bson:"approvalStatus,omitempty" json:"approval_status,omitempty"`
	Status         string              `bson:"status,omitempty" json:"status,omitempty"` // draft | active | completed
}

// DonorProfile aggregates a user's donations.
type DonorProfile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"user_id"`
	TotalDonated     float64            `bson:"totalDonated" json:"total_donated"`
	DonatedCampaigns []DonatedCampaign  `bson:"donatedCampaigns,omitempty" json:"donated_campaigns,omitempty"`
	AnonymousDefault bool               `bson:"anonymousDefault" json:"anonymous_default"`
}

// DonatedCampaign is embedded in DonorProfile.donatedCampaigns.
type DonatedCampaign struct {
	CampaignID  primitive.ObjectID `bson:"campaignId" json:"campaign_id"`
	TotalAmount float64            `bson:"totalAmount" json:"total_amount"`
}
