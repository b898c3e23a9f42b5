// Package model defines domain entities for the application.
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents a registered identity, keyed by email.
// Registration is insert-if-absent on the email; the profile fields are
// stored as-is and never updated by this service.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email    string             `bson:"email" json:"email"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
}
