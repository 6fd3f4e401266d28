package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/graph"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	graphql "github.com/graph-gophers/graphql-go"
	gqllog "github.com/graph-gophers/graphql-go/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type nopPanics struct{}

func (nopPanics) LogPanic(context.Context, interface{}) {}

// offlineSchema builds the production schema over a client that never
// reaches a server. Operations that touch the database must not run on it.
func offlineSchema(t *testing.T) *graphql.Schema {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("mongo.Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	r := graph.NewResolver(client.Database("schema_test"), graph.Deps{Client: client, Log: zap.NewNop()})
	schema, err := graph.NewSchema(r, graph.SchemaOptions(12, 10, nopPanics{})...)
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	return schema
}

func TestNewSchema(t *testing.T) {
	offlineSchema(t)
}

func TestSchemaOptions(t *testing.T) {
	tests := []struct {
		name     string
		depth    int
		parallel int
		panics   gqllog.Logger
		want     int
	}{
		{"all set", 12, 10, nopPanics{}, 3},
		{"limits only", 12, 10, nil, 2},
		{"zero limits", 0, 0, nopPanics{}, 1},
		{"nothing", 0, -1, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := graph.SchemaOptions(tt.depth, tt.parallel, tt.panics)
			if len(opts) != tt.want {
				t.Errorf("got %d options, want %d", len(opts), tt.want)
			}
		})
	}
}

// authOperations holds one valid document per @auth root field.
var authOperations = func() map[string]string {
	id := primitive.NewObjectID().Hex()
	return map[string]string{
		"Query.me":                    `{ me { _id } }`,
		"Query.users":                 `{ users { _id } }`,
		"Query.user":                  `{ user(_id: "` + id + `") { _id } }`,
		"Query.comments":              `{ comments(authorId: "` + id + `") { _id } }`,
		"Query.userRatings":           `{ userRatings(_id: "` + id + `") { _id } }`,
		"Query.userCampRating":        `{ userCampRating(campgroundId: "` + id + `", userId: "` + id + `") { _id } }`,
		"Query.notifications":         `{ notifications { _id } }`,
		"Mutation.toggleFollowUser":   `mutation { toggleFollowUser(userToFollowId: "` + id + `", follow: true) }`,
		"Mutation.updateUserAvatar":   `mutation { updateUserAvatar(avatar: "https://example.com/a.png") }`,
		"Mutation.updateUserPassword": `mutation { updateUserPassword(oldPassword: "old-password", newPassword: "new-password") }`,
		"Mutation.updateNotification": `mutation { updateNotification(notificationIdArr: ["` + id + `"], isSetRead: true) }`,
		"Mutation.deleteNotification": `mutation { deleteNotification(notificationIdArr: ["` + id + `"]) }`,
		"Mutation.updateUserSettings": `mutation { updateUserSettings(userData: {
  firstname: "A", lastname: "B", email: "a@example.com", hideStatsDashboard: false,
  enableNotifications: {newCampground: true, newComment: true, newFollower: true, newCommentLike: true},
  enableNotificationEmails: {newCampground: true, newComment: true, newFollower: true}
}) }`,
	}
}()

func TestAuthFields_RejectAnonymous(t *testing.T) {
	schema := offlineSchema(t)

	fields := graph.AuthFields()
	if len(fields) != len(authOperations) {
		t.Errorf("SDL marks %d fields @auth, %d operations cover them", len(fields), len(authOperations))
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	anon := testutil.Anonymous(ctx)

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			doc, ok := authOperations[field]
			if !ok {
				t.Fatalf("no operation exercises %s", field)
			}
			res := testutil.Exec(t, anon, schema, doc, nil)
			if res.ErrorCode() != apperr.CodeAuthentication {
				t.Errorf("got %q / %q, want %s", res.ErrorCode(), res.ErrorMessage(), apperr.CodeAuthentication)
			}
		})
	}
}

func TestCampground_EditModeDefault(t *testing.T) {
	schema := offlineSchema(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	res := testutil.Exec(t, ctx, schema, `{ campground(_id: "nope") { campground { _id } } }`, nil)
	if res.ErrorCode() != apperr.CodeValidation {
		t.Errorf("got %q / %q, want a validation error", res.ErrorCode(), res.ErrorMessage())
	}
}
