package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogify-app/blogify/blog/domain"
)

var _ domain.PostRepository = (*PostRepository)(nil)

// PostRepository implements domain.PostRepository over a MongoDB collection.
// Posts are stored one document each, keyed by the post id; counters use
// server-side $inc so concurrent bumps never lose increments.
type PostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(database *mongo.Database) *PostRepository {
	return &PostRepository{
		posts: database.Collection("posts"),
	}
}

func (r *PostRepository) Insert(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}
	if p.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	if _, err := r.posts.InsertOne(ctx, p); err != nil {
		return storeErr("insert post", err)
	}
	return nil
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.getOne(ctx, bson.M{"slug": slug})
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *PostRepository) getOne(ctx context.Context, filter bson.M) (*domain.Post, error) {
	var post domain.Post
	err := r.posts.FindOne(ctx, filter).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, storeErr("get post", err)
	}

	normalize(&post)
	return &post, nil
}

// List fetches documents in creation order (published_at is set once, at
// creation) and applies the shared filter semantics in-process, identical to
// the other stores. The published predicate is additionally pushed down to
// the server to keep the fetched set small.
func (r *PostRepository) List(ctx context.Context, filters domain.PostFilters) ([]*domain.Post, error) {
	query := bson.M{}
	if filters.Published != nil {
		query["is_published"] = *filters.Published
	}

	opts := optionsFindByCreation()
	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	defer cursor.Close(ctx)

	posts := make([]*domain.Post, 0)
	for cursor.Next(ctx) {
		var post domain.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, storeErr("decode post", err)
		}
		normalize(&post)
		posts = append(posts, &post)
	}
	if err := cursor.Err(); err != nil {
		return nil, storeErr("iterate posts", err)
	}

	return domain.ApplyFilters(posts, filters), nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	result, err := r.posts.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return storeErr("update post", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeErr("delete post", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "views")
}

func (r *PostRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, id, "likes")
}

func (r *PostRepository) increment(ctx context.Context, id string, field string) error {
	result, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: 1}},
	)
	if err != nil {
		return storeErr("increment counter", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// normalize repairs fields a decoded document may leave loose: a nil tag
// slice and the draft flag, which is derived rather than trusted.
func normalize(p *domain.Post) {
	if p.Tags == nil {
		p.Tags = make([]string, 0)
	}
	p.SetPublished(p.IsPublished)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}
