// internal/domain/models/hike.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Season is one of the six Indian seasons.
type Season struct {
	ID          int32  `bson:"id" json:"id"`
	IndianName  string `bson:"indianName" json:"indianName"`
	EnglishName string `bson:"englishName" json:"englishName"`
}

// Hike is the single document holding the grading scales offered when
// creating a campground.
type Hike struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Seasons             []Season           `bson:"seasons" json:"seasons"`
	HikingLevels        []DifficultyLevel  `bson:"hikingLevels" json:"hikingLevels"`
	TrekTechnicalGrades []DifficultyLevel  `bson:"trekTechnicalGrades" json:"trekTechnicalGrades"`
	FitnessLevels       []DifficultyLevel  `bson:"fitnessLevels" json:"fitnessLevels"`
}
