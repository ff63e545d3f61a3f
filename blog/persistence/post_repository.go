package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blogify-app/blogify/blog/domain"
	"github.com/blogify-app/blogify/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository over a SQL database
// (SQLite). Tags live in a child table and are written together with the
// post inside one transaction.
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: db,
	}
}

const insertPostQuery = `
	INSERT INTO posts (
		id, title, slug, excerpt, content, cover_image,
		author_id, author_name, author_email, author_avatar, author_bio,
		published_at, updated_at, read_time, views, likes, is_published
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertTagQuery = `
	INSERT INTO post_tags (post_id, position, tag) VALUES (?, ?, ?)
`

// Insert stores a new post and its tags atomically.
func (r *SQLitePostRepository) Insert(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}
	if p.ID == "" {
		return fmt.Errorf("post ID cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, insertPostQuery,
			p.ID,
			p.Title,
			p.Slug,
			p.Excerpt,
			p.Content,
			p.CoverImage,
			p.Author.ID,
			p.Author.Name,
			p.Author.Email,
			p.Author.Avatar,
			p.Author.Bio,
			p.PublishedAt,
			p.UpdatedAt,
			p.ReadTime,
			p.Views,
			p.Likes,
			p.IsPublished,
		)
		if err != nil {
			return storeErr("insert post", err)
		}

		return insertTags(txCtx, executor, p.ID, p.Tags)
	})
}

const selectPostColumns = `
	id, title, slug, excerpt, content, cover_image,
	author_id, author_name, author_email, author_avatar, author_bio,
	published_at, updated_at, read_time, views, likes, is_published
`

const getPostBySlugQuery = `
	SELECT ` + selectPostColumns + ` FROM posts WHERE slug = ?
`

const getPostByIDQuery = `
	SELECT ` + selectPostColumns + ` FROM posts WHERE id = ?
`

// GetBySlug retrieves a single post by its exact slug.
func (r *SQLitePostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.getOne(ctx, getPostBySlugQuery, slug)
}

// GetByID retrieves a single post by ID.
func (r *SQLitePostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.getOne(ctx, getPostByIDQuery, id)
}

func (r *SQLitePostRepository) getOne(ctx context.Context, query string, arg string) (*domain.Post, error) {
	var row postRow
	err := r.db.QueryRowContext(ctx, query, arg).Scan(row.fields()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, storeErr("get post", err)
	}

	post := row.toDomain()
	if post.Tags, err = r.loadTags(ctx, post.ID); err != nil {
		return nil, err
	}
	return post, nil
}

const listPostsQuery = `
	SELECT ` + selectPostColumns + ` FROM posts ORDER BY rowid
`

const listAllTagsQuery = `
	SELECT post_id, tag FROM post_tags ORDER BY post_id, position
`

// List loads the collection in insertion (rowid) order and applies the
// shared filter semantics in-process, so that results can never diverge from
// the other stores.
func (r *SQLitePostRepository) List(ctx context.Context, filters domain.PostFilters) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	byID := make(map[string]*domain.Post)
	for rows.Next() {
		var row postRow
		if err := rows.Scan(row.fields()...); err != nil {
			return nil, storeErr("scan post row", err)
		}
		post := row.toDomain()
		posts = append(posts, post)
		byID[post.ID] = post
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("iterate post rows", err)
	}

	tagRows, err := r.db.QueryContext(ctx, listAllTagsQuery)
	if err != nil {
		return nil, storeErr("list tags", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var postID, tag string
		if err := tagRows.Scan(&postID, &tag); err != nil {
			return nil, storeErr("scan tag row", err)
		}
		if post, ok := byID[postID]; ok {
			post.Tags = append(post.Tags, tag)
		}
	}
	if err = tagRows.Err(); err != nil {
		return nil, storeErr("iterate tag rows", err)
	}

	return domain.ApplyFilters(posts, filters), nil
}

const updatePostQuery = `
	UPDATE posts SET
		title = ?,
		excerpt = ?,
		content = ?,
		cover_image = ?,
		updated_at = ?,
		is_published = ?
	WHERE id = ?
`

const deleteTagsQuery = `
	DELETE FROM post_tags WHERE post_id = ?
`

// Update replaces a post's mutable columns and rewrites its tag rows in one
// transaction. The id, slug, author columns and derived read_time are left as
// stored.
func (r *SQLitePostRepository) Update(ctx context.Context, p *domain.Post) error {
	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)

		result, err := executor.ExecContext(txCtx, updatePostQuery,
			p.Title,
			p.Excerpt,
			p.Content,
			p.CoverImage,
			p.UpdatedAt,
			p.IsPublished,
			p.ID,
		)
		if err != nil {
			return storeErr("update post", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return storeErr("read update result", err)
		}
		if affected == 0 {
			return domain.ErrPostNotFound
		}

		if _, err := executor.ExecContext(txCtx, deleteTagsQuery, p.ID); err != nil {
			return storeErr("clear post tags", err)
		}
		return insertTags(txCtx, executor, p.ID, p.Tags)
	})
}

const deletePostQuery = `
	DELETE FROM posts WHERE id = ?
`

// Delete removes a post permanently. Tag rows cascade.
func (r *SQLitePostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return storeErr("delete post", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr("read delete result", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

const incrementViewsQuery = `
	UPDATE posts SET views = views + 1 WHERE id = ?
`

const incrementLikesQuery = `
	UPDATE posts SET likes = likes + 1 WHERE id = ?
`

func (r *SQLitePostRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, incrementViewsQuery, id)
}

func (r *SQLitePostRepository) IncrementLikes(ctx context.Context, id string) error {
	return r.increment(ctx, incrementLikesQuery, id)
}

func (r *SQLitePostRepository) increment(ctx context.Context, query string, id string) error {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("increment counter", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr("read increment result", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

const getTagsQuery = `
	SELECT tag FROM post_tags WHERE post_id = ? ORDER BY position
`

func (r *SQLitePostRepository) loadTags(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, getTagsQuery, postID)
	if err != nil {
		return nil, storeErr("load tags", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, storeErr("scan tag", err)
		}
		tags = append(tags, tag)
	}
	if err = rows.Err(); err != nil {
		return nil, storeErr("iterate tags", err)
	}
	return tags, nil
}

func insertTags(ctx context.Context, executor db.Executor, postID string, tags []string) error {
	for i, tag := range tags {
		if _, err := executor.ExecContext(ctx, insertTagQuery, postID, i, tag); err != nil {
			return storeErr("insert post tag", err)
		}
	}
	return nil
}

// storeErr tags a driver failure so callers can tell an unavailable store
// apart from a missing post.
func storeErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}

// postRow is a private struct used to scan database rows.
type postRow struct {
	ID           string
	Title        string
	Slug         string
	Excerpt      string
	Content      string
	CoverImage   string
	AuthorID     string
	AuthorName   string
	AuthorEmail  string
	AuthorAvatar string
	AuthorBio    string
	PublishedAt  sql.NullTime
	UpdatedAt    sql.NullTime
	ReadTime     int
	Views        int
	Likes        int
	IsPublished  bool
}

func (pr *postRow) fields() []any {
	return []any{
		&pr.ID,
		&pr.Title,
		&pr.Slug,
		&pr.Excerpt,
		&pr.Content,
		&pr.CoverImage,
		&pr.AuthorID,
		&pr.AuthorName,
		&pr.AuthorEmail,
		&pr.AuthorAvatar,
		&pr.AuthorBio,
		&pr.PublishedAt,
		&pr.UpdatedAt,
		&pr.ReadTime,
		&pr.Views,
		&pr.Likes,
		&pr.IsPublished,
	}
}

// toDomain converts a postRow to a domain.Post, handling nullable times.
func (pr *postRow) toDomain() *domain.Post {
	post := &domain.Post{
		ID:         pr.ID,
		Title:      pr.Title,
		Slug:       pr.Slug,
		Excerpt:    pr.Excerpt,
		Content:    pr.Content,
		CoverImage: pr.CoverImage,
		Author: domain.Author{
			ID:     pr.AuthorID,
			Name:   pr.AuthorName,
			Email:  pr.AuthorEmail,
			Avatar: pr.AuthorAvatar,
			Bio:    pr.AuthorBio,
		},
		Tags:     make([]string, 0),
		ReadTime: pr.ReadTime,
		Views:    pr.Views,
		Likes:    pr.Likes,
	}
	post.SetPublished(pr.IsPublished)

	if pr.PublishedAt.Valid {
		post.PublishedAt = pr.PublishedAt.Time
	}
	if pr.UpdatedAt.Valid {
		post.UpdatedAt = pr.UpdatedAt.Time
	}

	return post
}
