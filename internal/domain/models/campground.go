// internal/domain/models/campground.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Country is a row of the countries lookup table. It is also embedded
// in campgrounds as-is, which is why the field names keep their
// original casing.
type Country struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ContinentCode          string             `bson:"Continent_Code" json:"Continent_Code"`
	ContinentName          string             `bson:"Continent_Name" json:"Continent_Name"`
	CountryName            string             `bson:"Country_Name" json:"Country_Name"`
	CountryNumber          int32              `bson:"Country_Number" json:"Country_Number"`
	ThreeLetterCountryCode string             `bson:"Three_Letter_Country_Code" json:"Three_Letter_Country_Code"`
	TwoLetterCountryCode   string             `bson:"Two_Letter_Country_Code" json:"Two_Letter_Country_Code"`
}

// Amenity is a facility a campground can offer.
type Amenity struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Group string             `bson:"group" json:"group"`
}

// DifficultyLevel is one step on a fitness, hiking or trek grading scale.
type DifficultyLevel struct {
	Level     int32  `bson:"level" json:"level"`
	LevelName string `bson:"levelName" json:"levelName"`
	LevelDesc string `bson:"levelDesc" json:"levelDesc"`
}

// BestSeasons flags the six Indian seasons a campground is best visited in.
type BestSeasons struct {
	Vasanta  bool `bson:"vasanta" json:"vasanta"`
	Grishma  bool `bson:"grishma" json:"grishma"`
	Varsha   bool `bson:"varsha" json:"varsha"`
	Sharat   bool `bson:"sharat" json:"sharat"`
	Hemant   bool `bson:"hemant" json:"hemant"`
	Shishira bool `bson:"shishira" json:"shishira"`
}

// Campground is a user-posted listing.
type Campground struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Price       *float64           `bson:"price,omitempty" json:"price,omitempty"`
	Image       string             `bson:"image" json:"image"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Latitude    *int32             `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *int32             `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Author      AuthorRef          `bson:"author" json:"author"`
	Country     *Country           `bson:"country,omitempty" json:"country,omitempty"`
	Rating      *float64           `bson:"rating,omitempty" json:"rating,omitempty"`

	Comments  []primitive.ObjectID `bson:"comments" json:"comments"`
	Amenities []primitive.ObjectID `bson:"amenities" json:"amenities"`

	FitnessLevel       *DifficultyLevel `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	HikingLevel        *DifficultyLevel `bson:"hikingLevel,omitempty" json:"hikingLevel,omitempty"`
	TrekTechnicalGrade *DifficultyLevel `bson:"trekTechnicalGrade,omitempty" json:"trekTechnicalGrade,omitempty"`
	BestSeasons        *BestSeasons     `bson:"bestSeasons,omitempty" json:"bestSeasons,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CampgroundSummary is the reduced projection used by list views.
type CampgroundSummary struct {
	ID      primitive.ObjectID `bson:"_id" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Rating  *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	Price   *float64           `bson:"price,omitempty" json:"price,omitempty"`
	Country *Country           `bson:"country,omitempty" json:"country,omitempty"`
}
