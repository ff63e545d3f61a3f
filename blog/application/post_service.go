package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/blogify-app/blogify/blog/domain"
)

// PostService owns the post collection's semantics: validation, slug and
// read-time derivation, patch application and counter updates. The backing
// store behind it is interchangeable.
type PostService struct {
	repo domain.PostRepository
}

func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// ListPosts returns the posts passing the given filters, in collection
// insertion order. An empty result is not an error.
func (s *PostService) ListPosts(ctx context.Context, filters domain.PostFilters) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost looks a post up by its exact slug. Reads have no side effects;
// fetching the same slug twice returns the same post.
func (s *PostService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// RegisterView bumps a post's view counter. Callers that surface the post
// decide whether a read counts as a view.
func (s *PostService) RegisterView(ctx context.Context, id string) error {
	return s.repo.IncrementViews(ctx, id)
}

// CreatePost validates the input, derives the post's identity, slug, excerpt,
// read time and timestamps, attributes authorship to the actor, and inserts
// the post. New posts default to draft unless the input says otherwise.
func (s *PostService) CreatePost(ctx context.Context, actor domain.Author, data domain.CreatePostData) (*domain.Post, error) {
	if err := validateCreate(data); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := uuid.NewString()

	slug, err := s.uniqueSlug(ctx, Slugify(data.Title), id)
	if err != nil {
		return nil, fmt.Errorf("failed to derive slug: %w", err)
	}

	excerpt := strings.TrimSpace(data.Excerpt)
	if excerpt == "" {
		excerpt = ExtractExcerpt(data.Content)
	}

	tags := make([]string, 0, len(data.Tags))
	tags = append(tags, data.Tags...)

	post := &domain.Post{
		ID:          id,
		Title:       data.Title,
		Slug:        slug,
		Excerpt:     excerpt,
		Content:     data.Content,
		CoverImage:  data.CoverImage,
		Author:      actor,
		Tags:        tags,
		PublishedAt: now,
		UpdatedAt:   now,
		ReadTime:    ReadTime(data.Content),
	}
	post.SetPublished(data.IsPublished != nil && *data.IsPublished)

	if err := s.repo.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return post, nil
}

// UpdatePost patches the fields present in data onto the stored post and
// refreshes its update timestamp. The slug and read time are never
// recomputed, even when the title or content change, so published URLs stay
// stable.
func (s *PostService) UpdatePost(ctx context.Context, data domain.UpdatePostData) (*domain.Post, error) {
	post, err := s.repo.GetByID(ctx, data.ID)
	if err != nil {
		return nil, err
	}

	if data.Title != nil {
		post.Title = *data.Title
	}
	if data.Excerpt != nil {
		post.Excerpt = *data.Excerpt
	}
	if data.Content != nil {
		post.Content = *data.Content
	}
	if data.CoverImage != nil {
		post.CoverImage = *data.CoverImage
	}
	if data.Tags != nil {
		post.Tags = append([]string(nil), (*data.Tags)...)
	}
	if data.IsPublished != nil {
		post.SetPublished(*data.IsPublished)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost removes a post permanently. There is no tombstone.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// LikePost bumps a post's like counter.
func (s *PostService) LikePost(ctx context.Context, id string) error {
	return s.repo.IncrementLikes(ctx, id)
}

// uniqueSlug resolves slug collisions by appending a numeric suffix until the
// slug is free. A title made entirely of punctuation slugifies to the empty
// string; the post id takes over as the base in that case.
func (s *PostService) uniqueSlug(ctx context.Context, base string, id string) (string, error) {
	if base == "" {
		base = id
	}

	slug := base
	for n := 2; ; n++ {
		_, err := s.repo.GetBySlug(ctx, slug)
		if errors.Is(err, domain.ErrPostNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func validateCreate(data domain.CreatePostData) error {
	err := validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.By(notBlank)),
		validation.Field(&data.Content, validation.By(notBlank)),
	)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for name, fieldErr := range verrs {
		fields[name] = fieldErr.Error()
	}
	return &domain.ValidationError{Fields: fields}
}

// notBlank rejects empty and whitespace-only strings; validation.Required
// alone accepts strings of spaces.
func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
