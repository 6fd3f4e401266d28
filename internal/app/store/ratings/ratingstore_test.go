package ratingstore_test

import (
	"errors"
	"testing"
	"time"

	ratingstore "github.com/dalemusser/yelpcamp/internal/app/store/ratings"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_ForUserAndCampground(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "rater", "rater@example.com")
	other := fixtures.CreateUser(ctx, "other", "other@example.com")
	cg := fixtures.CreateCampground(ctx, other, "Ridge")

	// Duplicate ratings are allowed; the newest wins.
	fixtures.CreateRating(ctx, u, cg.ID, 2, time.Hour)
	fixtures.CreateRating(ctx, u, cg.ID, 5, time.Minute)
	fixtures.CreateRating(ctx, other, cg.ID, 1, 0)

	got, err := store.ForUserAndCampground(ctx, cg.ID, u.ID)
	if err != nil {
		t.Fatalf("ForUserAndCampground: %v", err)
	}
	if got.Rating != 5 {
		t.Errorf("rating = %v, want 5", got.Rating)
	}

	_, err = store.ForUserAndCampground(ctx, cg.ID, cg.ID)
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("unknown user: err = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Lists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "rater", "rater@example.com")
	cg1 := fixtures.CreateCampground(ctx, u, "One")
	cg2 := fixtures.CreateCampground(ctx, u, "Two")
	fixtures.CreateRating(ctx, u, cg1.ID, 3, 0)
	fixtures.CreateRating(ctx, u, cg2.ID, 4, 0)

	byCG, err := store.ByCampground(ctx, cg1.ID)
	if err != nil || len(byCG) != 1 {
		t.Errorf("ByCampground = %d, %v; want 1", len(byCG), err)
	}
	byAuthor, err := store.ByAuthor(ctx, u.ID)
	if err != nil || len(byAuthor) != 2 {
		t.Errorf("ByAuthor = %d, %v; want 2", len(byAuthor), err)
	}
	n, err := store.CountByAuthor(ctx, u.ID)
	if err != nil || n != 2 {
		t.Errorf("CountByAuthor = %d, %v; want 2", n, err)
	}
}
