package graph_test

import (
	"testing"
	"time"

	referencestore "github.com/dalemusser/yelpcamp/internal/app/store/reference"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCampgroundsQuery_SearchAndCounts(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := h.fx.CreateUser(ctx, "alice", "alice@example.com")
	bob := h.fx.CreateUser(ctx, "bob", "bob@example.com")
	h.fx.CreateUser(ctx, "carol", "carol@example.com")
	h.fx.CreateCampground(ctx, alice, "Alpine Meadow")
	h.fx.CreateCampground(ctx, alice, "Desert Flats")
	h.fx.CreateCampground(ctx, bob, "Alpine (North) Ridge")

	tests := []struct {
		name    string
		query   string
		matched float64
	}{
		{"no query", "", 3},
		{"case insensitive", "alpine", 2},
		{"regex metacharacters are literal", "(north)", 1},
		{"no match", "glacier", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.exec(t, ctx, `query($q: String) {
  campgrounds(query: $q, pagination: {limit: 10}) {
    campgrounds { name author { username } }
    maxCampgrounds campgroundsCount usersCount contributorsCount
  }
}`, map[string]interface{}{"q": tt.query}).MustSucceed(t)

			if got := res.Field("campgrounds", "maxCampgrounds"); got != tt.matched {
				t.Errorf("maxCampgrounds = %v, want %v", got, tt.matched)
			}
			list, _ := res.Field("campgrounds", "campgrounds").([]interface{})
			if float64(len(list)) != tt.matched {
				t.Errorf("returned %d campgrounds, want %v", len(list), tt.matched)
			}
			if got := res.Field("campgrounds", "campgroundsCount"); got != float64(3) {
				t.Errorf("campgroundsCount = %v", got)
			}
			if got := res.Field("campgrounds", "usersCount"); got != float64(3) {
				t.Errorf("usersCount = %v", got)
			}
			if got := res.Field("campgrounds", "contributorsCount"); got != float64(2) {
				t.Errorf("contributorsCount = %v", got)
			}
		})
	}
}

func TestCampgroundQuery_RatingData(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := h.fx.CreateUser(ctx, "author", "author@example.com")
	rater := h.fx.CreateUser(ctx, "rater", "rater@example.com")
	cg := h.fx.CreateCampground(ctx, author, "Lakeside")
	h.fx.CreateRating(ctx, rater, cg.ID, 4.5, 0)

	const query = `query($id: ID!, $edit: Boolean) {
  campground(_id: $id, isEditMode: $edit) {
    campground { name }
    ratingData { ratingsCount ratedBy }
  }
}`

	res := h.exec(t, ctx, query, map[string]interface{}{"id": cg.ID.Hex(), "edit": false}).MustSucceed(t)
	if got := res.Field("campground", "ratingData", "ratingsCount"); got != float64(1) {
		t.Errorf("ratingsCount = %v, want 1", got)
	}
	ratedBy, _ := res.Field("campground", "ratingData", "ratedBy").([]interface{})
	if len(ratedBy) != 1 || ratedBy[0] != rater.ID.Hex() {
		t.Errorf("ratedBy = %v", ratedBy)
	}

	res = h.exec(t, ctx, query, map[string]interface{}{"id": cg.ID.Hex(), "edit": true}).MustSucceed(t)
	if got := res.Field("campground", "ratingData"); got != nil {
		t.Errorf("edit mode ratingData = %v, want null", got)
	}

	res = h.exec(t, ctx, query, map[string]interface{}{"id": primitive.NewObjectID().Hex()}).MustSucceed(t)
	if got := res.Field("campground"); got != nil {
		t.Errorf("unknown campground = %v, want null", got)
	}

	res = h.exec(t, ctx, query, map[string]interface{}{"id": "bad"})
	if res.ErrorCode() != apperr.CodeValidation || res.ErrorMessage() != "Invalid input received for campground" {
		t.Errorf("bad id: got %q / %q", res.ErrorCode(), res.ErrorMessage())
	}
}

func TestUserCampRating_MostRecent(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := h.fx.CreateUser(ctx, "author", "author@example.com")
	rater := h.fx.CreateUser(ctx, "rater", "rater@example.com")
	cg := h.fx.CreateCampground(ctx, author, "Lakeside")
	h.fx.CreateRating(ctx, rater, cg.ID, 2, time.Hour)
	h.fx.CreateRating(ctx, rater, cg.ID, 5, 0)

	res := h.exec(t, testutil.WithCaller(ctx, rater.ID), `query($cg: ID!, $u: ID!) {
  userCampRating(campgroundId: $cg, userId: $u) { rating campgroundId { name } }
}`, map[string]interface{}{"cg": cg.ID.Hex(), "u": rater.ID.Hex()}).MustSucceed(t)

	if got := res.Field("userCampRating", "rating"); got != float64(5) {
		t.Errorf("rating = %v, want the newest (5)", got)
	}
	if got := res.String("userCampRating", "campgroundId", "name"); got != "Lakeside" {
		t.Errorf("campground = %q", got)
	}
}

func TestUserQuery_Relationships(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	star := h.fx.CreateUser(ctx, "star", "star@example.com")
	fan := h.fx.CreateUser(ctx, "fan", "fan@example.com")
	h.fx.Follow(ctx, fan.ID, star.ID)

	res := h.exec(t, testutil.WithCaller(ctx, fan.ID), `query($id: ID!) {
  user(_id: $id) { username password followers { username } notifications { _id } }
}`, map[string]interface{}{"id": star.ID.Hex()}).MustSucceed(t)

	if got := res.String("user", "password"); got != "👻 ACCESS DENIED" {
		t.Errorf("password = %q", got)
	}
	followers, _ := res.Field("user", "followers").([]interface{})
	if len(followers) != 1 || followers[0].(map[string]interface{})["username"] != "fan" {
		t.Errorf("followers = %v", followers)
	}
	notes, ok := res.Field("user", "notifications").([]interface{})
	if !ok || len(notes) != 0 {
		t.Errorf("notifications = %v, want empty list", res.Field("user", "notifications"))
	}
}

func TestAllUsers_Totals(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := h.fx.CreateUser(ctx, "author", "author@example.com")
	cg := h.fx.CreateCampground(ctx, author, "Lakeside")
	h.fx.CreateCampground(ctx, author, "Riverside")
	h.fx.CreateComment(ctx, author, "hello")
	h.fx.CreateRating(ctx, author, cg.ID, 3, 0)

	res := h.exec(t, ctx, `{ allUsers(query: "auth") { username totalCampgrounds totalComments totalRatings } }`, nil).MustSucceed(t)
	list, _ := res.Field("allUsers").([]interface{})
	if len(list) != 1 {
		t.Fatalf("got %d users, want 1", len(list))
	}
	u := list[0].(map[string]interface{})
	if u["totalCampgrounds"] != float64(2) || u["totalComments"] != float64(1) || u["totalRatings"] != float64(1) {
		t.Errorf("totals = %v", u)
	}
}

func TestStaticData(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := referencestore.New(h.db).Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	res := h.exec(t, ctx, `{
  campLevelsData { hikingLevels { level levelName } }
  campStaticData { countriesList { Country_Name } amenitiesList { name } fitnessLevels { level } }
}`, nil).MustSucceed(t)

	levels, _ := res.Field("campLevelsData", "hikingLevels").([]interface{})
	if len(levels) == 0 {
		t.Error("expected hiking levels")
	}
	countries, _ := res.Field("campStaticData", "countriesList").([]interface{})
	if len(countries) == 0 {
		t.Error("expected countries in static data")
	}
}

func TestEntity(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := h.fx.CreateUser(ctx, "author", "author@example.com")
	cg := h.fx.CreateCampground(ctx, author, "Lakeside")
	comment := h.fx.CreateComment(ctx, author, "lovely")

	const query = `query($kind: EntityKind!, $id: ID!) {
  entity(kind: $kind, _id: $id) {
    __typename
    _id
    ... on Campground { name }
    ... on Comment { text }
    ... on User { username }
  }
}`

	tests := []struct {
		name     string
		ctxAuth  bool
		kind     string
		id       string
		wantType string
		wantCode string
	}{
		{"campground", false, "CAMPGROUND", cg.ID.Hex(), "Campground", ""},
		{"comment", false, "COMMENT", comment.ID.Hex(), "Comment", ""},
		{"user with caller", true, "USER", author.ID.Hex(), "User", ""},
		{"user anonymous", false, "USER", author.ID.Hex(), "", apperr.CodeAuthentication},
		{"missing document", false, "CAMPGROUND", primitive.NewObjectID().Hex(), "", ""},
		{"malformed id", false, "COMMENT", "bad", "", apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.Anonymous(ctx)
			if tt.ctxAuth {
				c = testutil.WithCaller(ctx, author.ID)
			}
			res := h.exec(t, c, query, map[string]interface{}{"kind": tt.kind, "id": tt.id})
			if tt.wantCode != "" {
				if res.ErrorCode() != tt.wantCode {
					t.Errorf("code = %q, want %q (msg %q)", res.ErrorCode(), tt.wantCode, res.ErrorMessage())
				}
				return
			}
			res.MustSucceed(t)
			if tt.wantType == "" {
				if got := res.Field("entity"); got != nil {
					t.Errorf("entity = %v, want null", got)
				}
				return
			}
			if got := res.String("entity", "__typename"); got != tt.wantType {
				t.Errorf("__typename = %q, want %q", got, tt.wantType)
			}
			if got := res.String("entity", "_id"); got != tt.id {
				t.Errorf("_id = %q, want %q", got, tt.id)
			}
		})
	}
}
