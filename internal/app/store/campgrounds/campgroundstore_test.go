package campgroundstore_test

import (
	"testing"

	campgroundstore "github.com/dalemusser/yelpcamp/internal/app/store/campgrounds"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := campgroundstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "builder", "builder@example.com")
	cg, err := store.Insert(ctx, models.Campground{Name: "Cedar Flats", Author: testutil.Author(author)})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if cg.ID.IsZero() {
		t.Fatal("Insert did not assign an id")
	}

	got, err := store.GetByID(ctx, cg.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Cedar Flats" || got.Author.ID != author.ID {
		t.Errorf("got %+v", got)
	}
	if got.Comments == nil || got.Amenities == nil {
		t.Error("Insert should store empty lists, not null")
	}
}

func TestStore_Summaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := campgroundstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "builder", "builder@example.com")
	fixtures.CreateCampground(ctx, author, "Zion Loop")
	fixtures.CreateCampground(ctx, author, "Aspen Hollow")

	got, err := store.Summaries(ctx)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Aspen Hollow" || got[1].Name != "Zion Loop" {
		t.Errorf("order = %q, %q; want sorted by name", got[0].Name, got[1].Name)
	}
	if got[0].Price == nil || *got[0].Price != 25 {
		t.Errorf("price not projected: %+v", got[0].Price)
	}
	if got[0].Country == nil || got[0].Country.CountryName != "India" {
		t.Errorf("country not projected: %+v", got[0].Country)
	}
}

func TestStore_Counts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := campgroundstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "a", "a@example.com")
	b := fixtures.CreateUser(ctx, "b", "b@example.com")
	fixtures.CreateCampground(ctx, a, "One")
	fixtures.CreateCampground(ctx, a, "Two")
	fixtures.CreateCampground(ctx, b, "Three")

	tests := []struct {
		name string
		fn   func() (int64, error)
		want int64
	}{
		{"all", func() (int64, error) { return store.Count(ctx, nil) }, 3},
		{"filtered", func() (int64, error) { return store.Count(ctx, bson.M{"name": "Two"}) }, 1},
		{"by author a", func() (int64, error) { return store.CountByAuthor(ctx, a.ID) }, 2},
		{"by author b", func() (int64, error) { return store.CountByAuthor(ctx, b.ID) }, 1},
		{"contributors", func() (int64, error) { return store.ContributorCount(ctx) }, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStore_FindPaged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := campgroundstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "builder", "builder@example.com")
	for _, n := range []string{"A", "B", "C", "D"} {
		fixtures.CreateCampground(ctx, author, n)
	}

	got, err := store.Find(ctx, nil, options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(1).
		SetLimit(2))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 2 || got[0].Name != "B" || got[1].Name != "C" {
		t.Errorf("page = %+v", got)
	}
}
