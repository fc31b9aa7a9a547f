package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/pulse/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, username string, limit int64) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, id, username string, at time.Time) (*models.Post, bool, error)
	RemoveLike(ctx context.Context, id, username string) (*models.Post, error)
	IncrementCommentCount(ctx context.Context, id string) error
	DecrementCommentCount(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

// NewMongoPostRepository creates a new MongoPostRepository. Posts older than
// ttl are hidden from every read until the TTL monitor removes them.
func NewMongoPostRepository(db *mongo.Database, ttl time.Duration) *MongoPostRepository {
	return &MongoPostRepository{
		collection: db.Collection("posts"),
		ttl:        ttl,
		now:        time.Now,
	}
}

// EnsureIndexes creates the TTL index on created_at and the author lookup index.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("created_at_ttl").SetExpireAfterSeconds(int32(r.ttl.Seconds())),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("username_created_at"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}
	return nil
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.now()
	}
	post.Likes = []models.PostLike{}
	post.CommentCount = 0
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return err
	}
	post.SyncCounts()
	return nil
}

// GetPostByID retrieves a live post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var post models.Post
	err = r.collection.FindOne(ctx, r.live(bson.M{"_id": objID})).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post.SyncCounts()
	return &post, nil
}

// GetRecentPosts returns up to limit live posts, newest first.
func (r *MongoPostRepository) GetRecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	return r.find(ctx, r.live(bson.M{}), limit)
}

// GetPostsByAuthor returns up to limit live posts of one author, newest first.
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, username string, limit int64) ([]models.Post, error) {
	return r.find(ctx, r.live(bson.M{"username": username}), limit)
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLike appends username to the like list unless it is already there. The
// boolean reports whether a like was actually added.
func (r *MongoPostRepository) AddLike(ctx context.Context, id, username string, at time.Time) (*models.Post, bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, ErrInvalidID
	}

	filter := r.live(bson.M{
		"_id":            objID,
		"likes.username": bson.M{"$ne": username},
	})
	update := bson.M{"$push": bson.M{"likes": models.PostLike{Username: username, LikedAt: at}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the post is gone or username already likes it.
		existing, err := r.GetPostByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	post.SyncCounts()
	return &post, true, nil
}

// RemoveLike drops username from the like list. Removing an absent like is a no-op.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id, username string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	update := bson.M{"$pull": bson.M{"likes": bson.M{"username": username}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx, r.live(bson.M{"_id": objID}), update, opts).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	post.SyncCounts()
	return &post, nil
}

// IncrementCommentCount increments the comment count of a post
func (r *MongoPostRepository) IncrementCommentCount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comment_count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementCommentCount decrements the comment count of a post, never below zero
func (r *MongoPostRepository) DecrementCommentCount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	filter := bson.M{"_id": objID, "comment_count": bson.M{"$gt": 0}}
	_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comment_count": -1}})
	return err
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].SyncCounts()
	}
	return posts, nil
}

// live restricts filter to posts that have not outlived the TTL.
func (r *MongoPostRepository) live(filter bson.M) bson.M {
	filter["created_at"] = bson.M{"$gt": r.now().Add(-r.ttl)}
	return filter
}
