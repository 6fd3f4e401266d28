package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/graph"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type harness struct {
	db       *mongo.Database
	fx       *testutil.Fixtures
	resolver *graph.Resolver
	schema   *graphql.Schema
	tokens   *auth.Tokens
	sender   *testutil.FakeSender
	mail     *mailer.Dispatcher
	avatars  *testutil.FakeAvatarHost
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)

	h := &harness{
		db:      db,
		fx:      testutil.NewFixtures(t, db),
		tokens:  auth.NewTokens("graph-test-secret-0123456789abcdef", time.Hour),
		sender:  &testutil.FakeSender{},
		avatars: &testutil.FakeAvatarHost{},
	}
	h.mail = mailer.NewDispatcher(h.sender, zap.NewNop(), 5*time.Second)
	h.resolver = graph.NewResolver(db, graph.Deps{
		Client:    db.Client(),
		Tokens:    h.tokens,
		Mail:      h.mail,
		Avatars:   h.avatars,
		Log:       zap.NewNop(),
		ClientURL: "http://localhost:4200",
	})

	schema, err := graph.NewSchema(h.resolver)
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	h.schema = schema
	return h
}

func (h *harness) exec(t *testing.T, ctx context.Context, query string, vars map[string]interface{}) testutil.GraphQLResult {
	t.Helper()
	return testutil.Exec(t, ctx, h.schema, query, vars)
}

// sentMail waits for background sends and returns what was delivered.
func (h *harness) sentMail() []mailer.Email {
	h.mail.Wait()
	return h.sender.Sent()
}

func waitABit() { time.Sleep(20 * time.Millisecond) }
