// Package inputval validates client-supplied arguments before they reach
// the stores.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity names used in identifier validation messages.
const (
	EntityUser         = "USER"
	EntityCampground   = "CAMPGROUND"
	EntityComment      = "COMMENT"
	EntityRating       = "RATING"
	EntityNotification = "NOTIFICATION"
)

// Field kinds accepted by Field.
const (
	KindString  = "string"
	KindBoolean = "boolean"
)

// ObjectID parses id as a document identifier. A malformed id fails with
// "Invalid input received for <entity>".
func ObjectID(id, entity string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(
			fmt.Sprintf("Invalid input received for %s", strings.ToLower(entity)))
	}
	return oid, nil
}

// ObjectIDs parses every id in ids; the first malformed one fails.
func ObjectIDs(ids []string, entity string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := ObjectID(id, entity)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// Field checks that value has the expected kind.
//
// A "string" must be a string that is non-empty after trimming, and the
// trimmed string is returned. A "boolean" must be a bool. Any other kind is
// not checked and yields (nil, nil).
func Field(name string, value interface{}, kind string) (interface{}, error) {
	switch kind {
	case KindString:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, apperr.Validation(fmt.Sprintf("Invalid value received for %s", name))
		}
		return strings.TrimSpace(s), nil
	case KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, apperr.Validation(fmt.Sprintf("Invalid value received for %s", name))
		}
		return b, nil
	default:
		return nil, nil
	}
}

// String is Field(name, value, "string") with a typed result.
func String(name, value string) (string, error) {
	v, err := Field(name, value, KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// IsValidEmail reports whether s is a bare address (no display name) with
// well-formed local and domain parts.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return dotsOK(local) && dotsOK(domain)
}

func dotsOK(part string) bool {
	return !strings.HasPrefix(part, ".") &&
		!strings.HasSuffix(part, ".") &&
		!strings.Contains(part, "..")
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex identifier.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
