// internal/domain/models/user.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a platform account. Credentials and contact details are never
// mapped here so they cannot leak into a prompt.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName        string             `bson:"fullName" json:"full_name"`
	Skills          []string           `bson:"skills,omitempty" json:"skills,omitempty"`
	PreferredFields []string           `bson:"preferredFields,omitempty" json:"preferred_fields,omitempty"`
	Role            string             `bson:"role,omitempty" json:"role,omitempty"` // user | admin | organization | manager
	Status          string             `bson:"status,omitempty" json:"status,omitempty"`
}
