// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var metaChars = regexp.MustCompile(`[-\[\]{}()*+?.,\\^$|#\s]`)

// EscapeRegex backslash-escapes every regex metacharacter and whitespace
// character in text so it matches literally.
func EscapeRegex(text string) string {
	return metaChars.ReplaceAllString(text, `\$0`)
}

// ContainsCI returns a case-insensitive pattern matching text anywhere in
// a field.
func ContainsCI(text string) primitive.Regex {
	return primitive.Regex{Pattern: EscapeRegex(text), Options: "i"}
}

// AnyField builds an $or filter matching q in any of fields. A blank query
// yields an empty filter.
func AnyField(q string, fields ...string) bson.M {
	q = strings.TrimSpace(q)
	if q == "" || len(fields) == 0 {
		return bson.M{}
	}
	re := ContainsCI(q)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: re})
	}
	return bson.M{"$or": or}
}
