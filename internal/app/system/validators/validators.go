// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("campgrounds", campgroundsSchema())
	ensure("comments", commentsSchema())
	ensure("ratings", ratingsSchema())
	ensure("notifications", notificationsSchema())
	ensure("jobs", jobsSchema())

	// Lookup tables and the audit trail only need to exist.
	ensure("amenities", nil)
	ensure("countries", nil)
	ensure("hikes", nil)
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	number   = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}}
)

func authorSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"id", "username"},
		"properties": bson.M{
			"id":       bson.M{"bsonType": "objectId"},
			"username": nonBlank,
			"avatar":   bson.M{"bsonType": "string"},
		},
	}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "email", "password"},
			"properties": bson.M{
				"username":             nonBlank,
				"email":                nonBlank,
				"password":             nonBlank,
				"firstName":            bson.M{"bsonType": "string"},
				"lastName":             bson.M{"bsonType": "string"},
				"avatar":               bson.M{"bsonType": "string"},
				"isAdmin":              bson.M{"bsonType": "bool"},
				"resetPasswordToken":   bson.M{"bsonType": "string"},
				"resetPasswordExpires": bson.M{"bsonType": "date"},
				"followers":            bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"notifications":        bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func campgroundsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "author"},
			"properties": bson.M{
				"name":      nonBlank,
				"image":     bson.M{"bsonType": "string"},
				"price":     number,
				"rating":    number,
				"author":    authorSchema(),
				"comments":  bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"amenities": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"text", "author"},
			"properties": bson.M{
				"text":     nonBlank,
				"author":   authorSchema(),
				"isEdited": bson.M{"bsonType": "bool"},
				"likes":    bson.M{"bsonType": "array", "items": authorSchema()},
			},
		},
	}
}

func ratingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"rating", "author", "campgroundId"},
			"properties": bson.M{
				"rating":       number,
				"author":       authorSchema(),
				"campgroundId": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func notificationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"notificationType", "isRead"},
			"properties": bson.M{
				"notificationType": bson.M{"enum": bson.A{0, 1, 2, 3, 4}},
				"isRead":           bson.M{"bsonType": "bool"},
				"isCommentLike":    bson.M{"bsonType": "bool"},
				"follower": bson.M{
					"bsonType": "object",
					"required": bson.A{"id", "followingUserId"},
					"properties": bson.M{
						"id":              bson.M{"bsonType": "objectId"},
						"followingUserId": bson.M{"bsonType": "objectId"},
						"followerAvatar":  bson.M{"bsonType": "string"},
					},
				},
			},
		},
	}
}

func jobsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"kind", "key", "status"},
			"properties": bson.M{
				"kind":     nonBlank,
				"key":      nonBlank,
				"status":   bson.M{"enum": bson.A{"pending", "running", "done", "failed"}},
				"attempts": bson.M{"bsonType": bson.A{"int", "long"}},
			},
		},
	}
}
