package testutil

import (
	"context"
	"encoding/json"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
)

// GraphQLResult is an executed operation with its data decoded.
type GraphQLResult struct {
	Data   map[string]interface{}
	Errors []*gqlerrors.QueryError
}

// Exec runs query against schema with vars. Authenticate ctx with
// WithCaller first for operations that need a caller.
func Exec(t *testing.T, ctx context.Context, schema *graphql.Schema, query string, vars map[string]interface{}) GraphQLResult {
	t.Helper()

	resp := schema.Exec(ctx, query, "", vars)
	out := GraphQLResult{Errors: resp.Errors}
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &out.Data); err != nil {
			t.Fatalf("decode response data: %v", err)
		}
	}
	return out
}

// MustSucceed fails the test when the result carries errors.
func (r GraphQLResult) MustSucceed(t *testing.T) GraphQLResult {
	t.Helper()
	for _, e := range r.Errors {
		t.Errorf("graphql error: %s (%v)", e.Message, e.Extensions)
	}
	if len(r.Errors) > 0 {
		t.FailNow()
	}
	return r
}

// ErrorCode returns the extensions code of the first error, or "".
func (r GraphQLResult) ErrorCode() string {
	if len(r.Errors) == 0 || r.Errors[0].Extensions == nil {
		return ""
	}
	code, _ := r.Errors[0].Extensions["code"].(string)
	return code
}

// ErrorMessage returns the message of the first error, or "".
func (r GraphQLResult) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Field walks the decoded data along path and returns the value found.
func (r GraphQLResult) Field(path ...string) interface{} {
	var cur interface{} = r.Data
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

// String is Field for string leaves.
func (r GraphQLResult) String(path ...string) string {
	s, _ := r.Field(path...).(string)
	return s
}
