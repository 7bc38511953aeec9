// internal/domain/models/collections.go
package models

// Collection names in the platform database. The platform writes through
// Mongoose, which stores a model in the lowercased plural of its name
// (PhaseDay -> phasedays). The chat assistant only reads these collections,
// except for conversations which it owns.
const (
	CollectionCampaigns         = "campaigns"
	CollectionPhases            = "phases"
	CollectionPhaseDays         = "phasedays"
	CollectionTasks             = "tasks"
	CollectionDepartments       = "departments"
	CollectionUsers             = "users"
	CollectionDonationCampaigns = "donationcampaigns"
	CollectionDonorProfiles     = "donorprofiles"
	CollectionConversations     = "conversations"
)
