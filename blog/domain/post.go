package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrPostNotFound is returned when no post matches the requested slug or id.
	ErrPostNotFound = errors.New("post not found")

	// ErrStoreUnavailable wraps backing-store failures (connectivity, auth).
	// Stores must never collapse these into ErrPostNotFound.
	ErrStoreUnavailable = errors.New("post store unavailable")
)

// Author identifies who wrote a post. Authors are attached at creation and
// never edited afterwards.
type Author struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty" bson:"bio,omitempty"`
}

// Post is a blog post. Slug, read time and author are derived once at
// creation; IsDraft is always the complement of IsPublished.
type Post struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Slug        string    `json:"slug" bson:"slug"`
	Excerpt     string    `json:"excerpt" bson:"excerpt"`
	Content     string    `json:"content" bson:"content"`
	CoverImage  string    `json:"coverImage,omitempty" bson:"cover_image,omitempty"`
	Author      Author    `json:"author" bson:"author"`
	Tags        []string  `json:"tags" bson:"tags"`
	PublishedAt time.Time `json:"publishedAt" bson:"published_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
	ReadTime    int       `json:"readTime" bson:"read_time"`
	Views       int       `json:"views" bson:"views"`
	Likes       int       `json:"likes" bson:"likes"`
	IsPublished bool      `json:"isPublished" bson:"is_published"`
	IsDraft     bool      `json:"isDraft" bson:"is_draft"`
}

// SetPublished flips the publication state while keeping IsDraft its
// complement.
func (p *Post) SetPublished(published bool) {
	p.IsPublished = published
	p.IsDraft = !published
}

// CreatePostData carries the caller-supplied fields for a new post.
// Everything else on Post is derived.
type CreatePostData struct {
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished,omitempty"`
}

// UpdatePostData patches a subset of a post's mutable fields. Nil pointers
// mean "leave unchanged". ID, slug, author and read time are never touched.
type UpdatePostData struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Excerpt     *string   `json:"excerpt,omitempty"`
	Content     *string   `json:"content,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}

// ValidationError reports one or more rejected input fields. Fields maps the
// field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// PostRepository is the backing-store contract. Any conforming store
// (in-memory, relational, document database) must preserve insertion order
// for List and return ErrPostNotFound for missing slugs/ids.
type PostRepository interface {
	Insert(ctx context.Context, p *Post) error
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filters PostFilters) ([]*Post, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error

	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}
