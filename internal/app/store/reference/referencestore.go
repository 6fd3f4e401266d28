// Package referencestore reads the static lookup collections: amenities,
// countries and the hikes grading document.
package referencestore

import (
	"context"
	"errors"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	AmenitiesCollection = "amenities"
	CountriesCollection = "countries"
	HikesCollection     = "hikes"
)

type Store struct {
	amenities *mongo.Collection
	countries *mongo.Collection
	hikes     *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		amenities: db.Collection(AmenitiesCollection),
		countries: db.Collection(CountriesCollection),
		hikes:     db.Collection(HikesCollection),
	}
}

// Amenities lists every amenity by group then name.
func (s *Store) Amenities(ctx context.Context) ([]models.Amenity, error) {
	return findAll[models.Amenity](ctx, s.amenities, bson.M{},
		bson.D{{Key: "group", Value: 1}, {Key: "name", Value: 1}})
}

// AmenitiesByIDs loads the amenities whose ids are in ids.
func (s *Store) AmenitiesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Amenity, error) {
	if len(ids) == 0 {
		return []models.Amenity{}, nil
	}
	return findAll[models.Amenity](ctx, s.amenities, bson.M{"_id": bson.M{"$in": ids}},
		bson.D{{Key: "group", Value: 1}, {Key: "name", Value: 1}})
}

// Countries lists every country by name.
func (s *Store) Countries(ctx context.Context) ([]models.Country, error) {
	return findAll[models.Country](ctx, s.countries, bson.M{},
		bson.D{{Key: "Country_Name", Value: 1}})
}

// Hike returns the grading scales document. A missing document yields an
// empty Hike, not an error.
func (s *Store) Hike(ctx context.Context) (models.Hike, error) {
	var h models.Hike
	err := s.hikes.FindOne(ctx, bson.M{}).Decode(&h)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Hike{
			Seasons:             []models.Season{},
			HikingLevels:        []models.DifficultyLevel{},
			TrekTechnicalGrades: []models.DifficultyLevel{},
			FitnessLevels:       []models.DifficultyLevel{},
		}, nil
	}
	if err != nil {
		return models.Hike{}, err
	}
	return h, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	cur, err := c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
