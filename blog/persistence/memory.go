package persistence

import (
	"context"
	"sync"

	"github.com/blogify-app/blogify/blog/domain"
)

var _ domain.PostRepository = (*MemoryPostRepository)(nil)

// MemoryPostRepository keeps the canonical collection in an insertion-ordered
// slice. It hands out copies, never references into the collection, so
// callers cannot mutate stored posts behind its back. Suitable for tests and
// single-process development.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []*domain.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

func (r *MemoryPostRepository) Insert(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts = append(r.posts, clonePost(p))
	return nil
}

func (r *MemoryPostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.posts {
		if p.ID == id {
			return clonePost(p), nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *MemoryPostRepository) List(ctx context.Context, filters domain.PostFilters) ([]*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		snapshot = append(snapshot, clonePost(p))
	}

	return domain.ApplyFilters(snapshot, filters), nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.posts {
		if existing.ID == p.ID {
			r.posts[i] = clonePost(p)
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (r *MemoryPostRepository) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.ID == id {
			p.Views++
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func (r *MemoryPostRepository) IncrementLikes(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.posts {
		if p.ID == id {
			p.Likes++
			return nil
		}
	}
	return domain.ErrPostNotFound
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}
