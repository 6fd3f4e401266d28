// internal/domain/models/rating.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is a single user's score for a campground.
//
// Nothing prevents one user from rating the same campground twice.
type Rating struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Rating       float64            `bson:"rating" json:"rating"`
	Author       AuthorRef          `bson:"author" json:"author"`
	CampgroundID primitive.ObjectID `bson:"campgroundId" json:"campgroundId"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
