package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/blogify-app/blogify/api"
	"github.com/blogify-app/blogify/blog/application"
	"github.com/blogify-app/blogify/blog/domain"
)

type PostHandler struct {
	posts    *application.PostService
	auth     *application.AuthService
	markdown application.MarkdownRenderer
}

func NewPostHandler(posts *application.PostService, auth *application.AuthService, markdown application.MarkdownRenderer) *PostHandler {
	return &PostHandler{
		posts:    posts,
		auth:     auth,
		markdown: markdown,
	}
}

// ListPosts handles GET /posts. Repository filters come from query
// parameters; `q` is the listing view's live search term, applied on top of
// whatever the repository returned using the same predicate, so bypassing
// either pass cannot change which posts match.
func (h *PostHandler) ListPosts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	posts, err := h.posts.ListPosts(c.Request.Context(), filters)
	if err != nil {
		writeError(c, err)
		return
	}

	if q := c.Query("q"); q != "" {
		filtered := make([]*domain.Post, 0, len(posts))
		for _, p := range posts {
			if domain.MatchesSearch(p, q) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	c.JSON(http.StatusOK, api.PostList{Posts: posts, Total: len(posts)})
}

// GetPost handles GET /posts/:slug. Serving the detail page counts as a
// view; a failed counter bump is logged, not surfaced, and the read still
// succeeds.
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.posts.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.posts.RegisterView(c.Request.Context(), post.ID); err != nil {
		log.Warn().Err(err).Str("postID", post.ID).Msg("Failed to increment view count")
	} else {
		post.Views++
	}

	rendered, err := h.markdown.Render(post.Content)
	if err != nil {
		log.Error().Err(err).Str("slug", post.Slug).Msg("Failed to render post content")
		rendered = ""
	}

	c.JSON(http.StatusOK, api.PostDetail{Post: post, ContentHTML: rendered})
}

// CreatePost handles POST /posts. The acting identity comes from the auth
// middleware; its stored profile supplies avatar and bio for the author
// record when available.
func (h *PostHandler) CreatePost(c *gin.Context) {
	identity, ok := domain.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	data := domain.CreatePostData{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author := domain.Author{ID: identity.ID, Name: identity.Name, Email: identity.Email}
	if user, err := h.auth.UserByID(c.Request.Context(), identity.ID); err == nil {
		author = user.AuthorRef()
	}

	post, err := h.posts.CreatePost(c.Request.Context(), author, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PATCH /posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	data := domain.UpdatePostData{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data.ID = c.Param("id")

	post, err := h.posts.UpdatePost(c.Request.Context(), data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.posts.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LikePost handles POST /posts/:id/like.
func (h *PostHandler) LikePost(c *gin.Context) {
	if err := h.posts.LikePost(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseFilters(c *gin.Context) (domain.PostFilters, error) {
	filters := domain.PostFilters{
		Search: c.Query("search"),
	}

	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	if published := c.Query("published"); published != "" {
		v, err := strconv.ParseBool(published)
		if err != nil {
			return filters, errors.New("published must be a boolean")
		}
		filters.Published = &v
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return filters, errors.New("limit must be a non-negative integer")
		}
		filters.Limit = n
	}

	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return filters, errors.New("offset must be a non-negative integer")
		}
		filters.Offset = n
	}

	return filters, nil
}

// writeError maps domain errors onto HTTP statuses. Store failures are never
// reported as not-found.
func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validationErr.Fields})
	case errors.Is(err, domain.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error().Err(err).Msg("Post store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
	default:
		log.Error().Err(err).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
