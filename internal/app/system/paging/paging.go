// internal/app/system/paging/paging.go
package paging

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxLimit caps the page size a client may ask for.
const MaxLimit = 200

// Params is offset pagination as requested by a client. Zero values mean
// "not set".
type Params struct {
	Skip  int64
	Limit int64
	Sort  string // <field>_ASC or <field>_DESC
}

// sortable lists the fields a client may sort campgrounds and users by.
var sortable = map[string]bool{
	"name":      true,
	"price":     true,
	"location":  true,
	"rating":    true,
	"createdAt": true,
	"updatedAt": true,
	"username":  true,
}

// ParseSort turns "<field>_ASC|_DESC" into a sort document with _id as a
// tiebreaker. ok is false for an empty or unknown key.
func ParseSort(key string) (bson.D, bool) {
	field, dir, found := strings.Cut(key, "_")
	if !found || !sortable[field] {
		return nil, false
	}
	var order int
	switch dir {
	case "ASC":
		order = 1
	case "DESC":
		order = -1
	default:
		return nil, false
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}, true
}

// FindOptions builds Find options for p, falling back to def when p has no
// usable sort.
func (p Params) FindOptions(def bson.D) *options.FindOptions {
	opts := options.Find()
	if s, ok := ParseSort(p.Sort); ok {
		opts.SetSort(s)
	} else if def != nil {
		opts.SetSort(def)
	}
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		limit := p.Limit
		if limit > MaxLimit {
			limit = MaxLimit
		}
		opts.SetLimit(limit)
	}
	return opts
}

// NewestFirst is the default ordering for campground lists.
var NewestFirst = bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}
