package graph

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authFields holds the root fields the SDL marks @auth, keyed
// "Query.me" or "Mutation.toggleFollowUser".
var authFields = parseAuthFields(schemaSDL)

// AuthFields lists the root fields that require a caller, sorted.
func AuthFields() []string {
	out := make([]string, 0, len(authFields))
	for f := range authFields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// requireCaller is the first step of every @auth resolver. It returns the
// caller id, or an authentication error for an anonymous or rejected
// credential. Calling it for a field the SDL does not mark @auth is a
// wiring mistake and fails loudly.
func (r *Resolver) requireCaller(ctx context.Context, field string) (primitive.ObjectID, error) {
	if !authFields[field] {
		return primitive.NilObjectID, r.internal("Internal server error",
			fmt.Errorf("requireCaller: %s is not declared @auth", field))
	}
	return auth.MustUserID(ctx)
}

// parseAuthFields scans the Query and Mutation blocks of sdl for fields
// carrying @auth. Each field sits on one line.
func parseAuthFields(sdl string) map[string]bool {
	out := make(map[string]bool)
	var block string

	sc := bufio.NewScanner(strings.NewReader(sdl))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "type Query"):
			block = "Query"
			continue
		case strings.HasPrefix(line, "type Mutation"):
			block = "Mutation"
			continue
		case line == "}":
			block = ""
			continue
		}
		if block == "" || !strings.Contains(line, "@auth") {
			continue
		}
		name := line
		if i := strings.IndexAny(name, "(:"); i >= 0 {
			name = name[:i]
		}
		out[block+"."+strings.TrimSpace(name)] = true
	}
	return out
}
