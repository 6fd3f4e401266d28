package commentstore

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the comments collection name.
const Collection = "comments"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a comment by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ByIDs loads the comments whose ids are in ids, oldest first.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// ByAuthor lists every comment the user wrote, oldest first.
func (s *Store) ByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Comment, error) {
	return s.find(ctx, bson.M{"author.id": authorID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByAuthor returns how many comments the user wrote.
func (s *Store) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"author.id": authorID})
}

// SetAuthorAvatar rewrites the author avatar snapshot on every comment
// by userID.
func (s *Store) SetAuthorAvatar(ctx context.Context, userID primitive.ObjectID, avatar string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"author.id": userID},
		bson.M{"$set": bson.M{"author.avatar": avatar}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetLikeAvatar rewrites the avatar snapshot on every like entry by
// userID, across all comments.
func (s *Store) SetLikeAvatar(ctx context.Context, userID primitive.ObjectID, avatar string) (int64, error) {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"like.id": userID}},
	})
	res, err := s.c.UpdateMany(ctx,
		bson.M{"likes.id": userID},
		bson.M{"$set": bson.M{"likes.$[like].avatar": avatar}},
		opts,
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Insert stores c, assigning an id when none is set.
func (s *Store) Insert(ctx context.Context, c models.Comment) (models.Comment, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.Likes == nil {
		c.Likes = []models.AuthorRef{}
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}
