package referencestore_test

import (
	"testing"

	referencestore "github.com/dalemusser/yelpcamp/internal/app/store/reference"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_HikeMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := referencestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h, err := store.Hike(ctx)
	if err != nil {
		t.Fatalf("Hike: %v", err)
	}
	if h.Seasons == nil || h.HikingLevels == nil || h.TrekTechnicalGrades == nil || h.FitnessLevels == nil {
		t.Errorf("empty hike should carry empty lists, got %+v", h)
	}
	if len(h.Seasons) != 0 {
		t.Errorf("seasons = %d, want 0", len(h.Seasons))
	}
}

func TestStore_Seed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := referencestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	res, err := store.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.Hikes != 1 || res.Amenities == 0 || res.Countries == 0 {
		t.Errorf("first seed = %+v", res)
	}

	// Second run leaves populated collections alone.
	again, err := store.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if again != (referencestore.SeedResult{}) {
		t.Errorf("second seed = %+v, want zero", again)
	}

	h, err := store.Hike(ctx)
	if err != nil {
		t.Fatalf("Hike: %v", err)
	}
	want := referencestore.DefaultHike()
	if len(h.Seasons) != len(want.Seasons) || len(h.FitnessLevels) != len(want.FitnessLevels) {
		t.Errorf("hike = %+v", h)
	}

	amenities, err := store.Amenities(ctx)
	if err != nil {
		t.Fatalf("Amenities: %v", err)
	}
	if len(amenities) != res.Amenities {
		t.Errorf("amenities = %d, want %d", len(amenities), res.Amenities)
	}

	countries, err := store.Countries(ctx)
	if err != nil {
		t.Fatalf("Countries: %v", err)
	}
	if len(countries) != res.Countries {
		t.Errorf("countries = %d, want %d", len(countries), res.Countries)
	}
	for i := 1; i < len(countries); i++ {
		if countries[i-1].CountryName > countries[i].CountryName {
			t.Errorf("countries not sorted: %q before %q", countries[i-1].CountryName, countries[i].CountryName)
		}
	}
}

func TestStore_AmenitiesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := referencestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fire := models.Amenity{ID: primitive.NewObjectID(), Name: "Fire pit", Group: "Outdoor"}
	water := models.Amenity{ID: primitive.NewObjectID(), Name: "Drinking water", Group: "Basics"}
	if _, err := db.Collection(referencestore.AmenitiesCollection).InsertMany(ctx, []interface{}{fire, water}); err != nil {
		t.Fatalf("seed amenities: %v", err)
	}

	got, err := store.AmenitiesByIDs(ctx, []primitive.ObjectID{fire.ID})
	if err != nil {
		t.Fatalf("AmenitiesByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Fire pit" {
		t.Errorf("got %+v", got)
	}

	none, err := store.AmenitiesByIDs(ctx, nil)
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("AmenitiesByIDs(nil) = %v, %v", none, err)
	}
}
