package referencestore

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// SeedResult reports what Seed inserted.
type SeedResult struct {
	Hikes     int
	Amenities int
	Countries int
}

// Seed loads the default lookup data into any reference collection that is
// empty. Collections that already hold documents are left alone.
func (s *Store) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	if n, err := s.hikes.CountDocuments(ctx, bson.M{}); err != nil {
		return res, err
	} else if n == 0 {
		if _, err := s.hikes.InsertOne(ctx, DefaultHike()); err != nil {
			return res, err
		}
		res.Hikes = 1
	}

	if n, err := s.amenities.CountDocuments(ctx, bson.M{}); err != nil {
		return res, err
	} else if n == 0 {
		docs := make([]interface{}, 0, len(defaultAmenities))
		for _, a := range defaultAmenities {
			docs = append(docs, a)
		}
		if _, err := s.amenities.InsertMany(ctx, docs); err != nil {
			return res, err
		}
		res.Amenities = len(docs)
	}

	if n, err := s.countries.CountDocuments(ctx, bson.M{}); err != nil {
		return res, err
	} else if n == 0 {
		docs := make([]interface{}, 0, len(defaultCountries))
		for _, c := range defaultCountries {
			docs = append(docs, c)
		}
		if _, err := s.countries.InsertMany(ctx, docs); err != nil {
			return res, err
		}
		res.Countries = len(docs)
	}

	return res, nil
}

// DefaultHike returns the built-in grading scales.
func DefaultHike() models.Hike {
	return models.Hike{
		Seasons: []models.Season{
			{ID: 1, IndianName: "Vasanta", EnglishName: "Spring"},
			{ID: 2, IndianName: "Grishma", EnglishName: "Summer"},
			{ID: 3, IndianName: "Varsha", EnglishName: "Monsoon"},
			{ID: 4, IndianName: "Sharat", EnglishName: "Autumn"},
			{ID: 5, IndianName: "Hemant", EnglishName: "Pre-winter"},
			{ID: 6, IndianName: "Shishira", EnglishName: "Winter"},
		},
		HikingLevels: []models.DifficultyLevel{
			{Level: 1, LevelName: "Easy", LevelDesc: "Short walks on well-marked, mostly flat trails."},
			{Level: 2, LevelName: "Moderate", LevelDesc: "Longer trails with some elevation gain."},
			{Level: 3, LevelName: "Difficult", LevelDesc: "Steep, rough or long trails needing stamina."},
			{Level: 4, LevelName: "Strenuous", LevelDesc: "Sustained climbs over uneven ground, full day or more."},
		},
		TrekTechnicalGrades: []models.DifficultyLevel{
			{Level: 1, LevelName: "Non-technical", LevelDesc: "No climbing skills or equipment required."},
			{Level: 2, LevelName: "Scrambling", LevelDesc: "Occasional use of hands on rocky sections."},
			{Level: 3, LevelName: "Technical", LevelDesc: "Ropes, crampons or ice axes may be required."},
		},
		FitnessLevels: []models.DifficultyLevel{
			{Level: 1, LevelName: "Beginner", LevelDesc: "Suitable for anyone in general good health."},
			{Level: 2, LevelName: "Intermediate", LevelDesc: "Regular exercise recommended beforehand."},
			{Level: 3, LevelName: "Advanced", LevelDesc: "Strong endurance and prior trekking experience."},
		},
	}
}

var defaultAmenities = []models.Amenity{
	{Name: "Drinking Water", Group: "Essentials"},
	{Name: "Toilets", Group: "Essentials"},
	{Name: "Showers", Group: "Essentials"},
	{Name: "Electricity", Group: "Essentials"},
	{Name: "Campfire", Group: "Activities"},
	{Name: "Hiking Trails", Group: "Activities"},
	{Name: "Fishing", Group: "Activities"},
	{Name: "Swimming", Group: "Activities"},
	{Name: "Tent Rental", Group: "Gear"},
	{Name: "Sleeping Bags", Group: "Gear"},
	{Name: "Parking", Group: "Access"},
	{Name: "Pets Allowed", Group: "Access"},
}

var defaultCountries = []models.Country{
	{ContinentCode: "AS", ContinentName: "Asia", CountryName: "India, Republic of", CountryNumber: 356, ThreeLetterCountryCode: "IND", TwoLetterCountryCode: "IN"},
	{ContinentCode: "AS", ContinentName: "Asia", CountryName: "Nepal, Federal Democratic Republic of", CountryNumber: 524, ThreeLetterCountryCode: "NPL", TwoLetterCountryCode: "NP"},
	{ContinentCode: "NA", ContinentName: "North America", CountryName: "United States of America", CountryNumber: 840, ThreeLetterCountryCode: "USA", TwoLetterCountryCode: "US"},
	{ContinentCode: "NA", ContinentName: "North America", CountryName: "Canada", CountryNumber: 124, ThreeLetterCountryCode: "CAN", TwoLetterCountryCode: "CA"},
	{ContinentCode: "EU", ContinentName: "Europe", CountryName: "Switzerland, Swiss Confederation", CountryNumber: 756, ThreeLetterCountryCode: "CHE", TwoLetterCountryCode: "CH"},
	{ContinentCode: "EU", ContinentName: "Europe", CountryName: "Norway, Kingdom of", CountryNumber: 578, ThreeLetterCountryCode: "NOR", TwoLetterCountryCode: "NO"},
	{ContinentCode: "OC", ContinentName: "Oceania", CountryName: "New Zealand", CountryNumber: 554, ThreeLetterCountryCode: "NZL", TwoLetterCountryCode: "NZ"},
	{ContinentCode: "OC", ContinentName: "Oceania", CountryName: "Australia, Commonwealth of", CountryNumber: 36, ThreeLetterCountryCode: "AUS", TwoLetterCountryCode: "AU"},
	{ContinentCode: "SA", ContinentName: "South America", CountryName: "Chile, Republic of", CountryNumber: 152, ThreeLetterCountryCode: "CHL", TwoLetterCountryCode: "CL"},
	{ContinentCode: "AF", ContinentName: "Africa", CountryName: "Tanzania, United Republic of", CountryNumber: 834, ThreeLetterCountryCode: "TZA", TwoLetterCountryCode: "TZ"},
}
