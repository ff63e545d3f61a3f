package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blogify-app/blogify/blog/domain"
	"github.com/blogify-app/blogify/blog/persistence"
)

var testAuthor = domain.Author{
	ID:    "author-1",
	Name:  "Sarah Johnson",
	Email: "sarah@example.com",
}

func newTestService() *PostService {
	return NewPostService(persistence.NewMemoryPostRepository())
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreatePost_DerivesFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "My Amazing Blog Post!",
		Excerpt: "A short summary",
		Content: strings.Repeat("word ", 400),
		Tags:    []string{"Go", "Testing"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if post.ID == "" {
		t.Error("ID was not assigned")
	}
	if post.Slug != "my-amazing-blog-post" {
		t.Errorf("Slug = %q, want %q", post.Slug, "my-amazing-blog-post")
	}
	if post.ReadTime != 2 {
		t.Errorf("ReadTime = %d, want 2", post.ReadTime)
	}
	if post.Author != testAuthor {
		t.Errorf("Author = %+v, want %+v", post.Author, testAuthor)
	}
	if post.Views != 0 || post.Likes != 0 {
		t.Errorf("counters = %d/%d, want 0/0", post.Views, post.Likes)
	}
	if post.IsPublished || !post.IsDraft {
		t.Errorf("new posts default to draft: IsPublished=%v IsDraft=%v", post.IsPublished, post.IsDraft)
	}
	if !post.PublishedAt.Equal(post.UpdatedAt) {
		t.Errorf("PublishedAt %v != UpdatedAt %v at creation", post.PublishedAt, post.UpdatedAt)
	}
}

func TestCreatePost_RoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Round Trip",
		Content: "some words here",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := svc.GetPost(ctx, created.Slug)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}

	if got.ID != created.ID || got.Title != created.Title || got.Slug != created.Slug {
		t.Errorf("GetPost returned %+v, want the created post %+v", got, created)
	}
	if got.Views != created.Views || got.Likes != created.Likes {
		t.Errorf("counters after read = %d/%d, want the created %d/%d",
			got.Views, got.Likes, created.Views, created.Likes)
	}
}

func TestGetPost_IsReadOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Quiet Read",
		Content: "content",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := svc.GetPost(ctx, created.Slug)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Views != 0 {
			t.Fatalf("Views = %d after %d reads, want 0", got.Views, i+1)
		}
	}
}

func TestRegisterView(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Counted Read",
		Content: "content",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.RegisterView(ctx, created.ID); err != nil {
			t.Fatalf("RegisterView failed: %v", err)
		}
	}

	got, err := svc.GetPost(ctx, created.Slug)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Views != 2 {
		t.Errorf("Views = %d after two registered views, want 2", got.Views)
	}

	if err := svc.RegisterView(ctx, "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("RegisterView on unknown id = %v, want ErrPostNotFound", err)
	}
}

func TestCreatePost_PublishedFlag(t *testing.T) {
	svc := newTestService()

	post, err := svc.CreatePost(context.Background(), testAuthor, domain.CreatePostData{
		Title:       "Published Right Away",
		Content:     "content",
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if !post.IsPublished || post.IsDraft {
		t.Errorf("IsPublished=%v IsDraft=%v, want true/false", post.IsPublished, post.IsDraft)
	}
}

func TestCreatePost_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name      string
		data      domain.CreatePostData
		wantField string
	}{
		{
			name:      "Empty title",
			data:      domain.CreatePostData{Title: "", Content: "x"},
			wantField: "title",
		},
		{
			name:      "Whitespace title",
			data:      domain.CreatePostData{Title: "   ", Content: "x"},
			wantField: "title",
		},
		{
			name:      "Empty content",
			data:      domain.CreatePostData{Title: "Hello", Content: ""},
			wantField: "content",
		},
		{
			name:      "Whitespace content",
			data:      domain.CreatePostData{Title: "Hello", Content: " \n\t"},
			wantField: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, testAuthor, tt.data)

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("CreatePost error = %v, want ValidationError", err)
			}
			if _, ok := validationErr.Fields[tt.wantField]; !ok {
				t.Errorf("ValidationError fields = %v, want %q present", validationErr.Fields, tt.wantField)
			}
		})
	}
}

func TestCreatePost_SlugCollision(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Same Title", Content: "a"})
	if err != nil {
		t.Fatalf("first CreatePost failed: %v", err)
	}
	second, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Same Title", Content: "b"})
	if err != nil {
		t.Fatalf("second CreatePost failed: %v", err)
	}
	third, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Same Title", Content: "c"})
	if err != nil {
		t.Fatalf("third CreatePost failed: %v", err)
	}

	if first.Slug != "same-title" {
		t.Errorf("first slug = %q, want %q", first.Slug, "same-title")
	}
	if second.Slug != "same-title-2" {
		t.Errorf("second slug = %q, want %q", second.Slug, "same-title-2")
	}
	if third.Slug != "same-title-3" {
		t.Errorf("third slug = %q, want %q", third.Slug, "same-title-3")
	}
}

func TestCreatePost_PunctuationOnlyTitleFallsBackToID(t *testing.T) {
	svc := newTestService()

	post, err := svc.CreatePost(context.Background(), testAuthor, domain.CreatePostData{
		Title:   "!!!",
		Content: "content",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.Slug != post.ID {
		t.Errorf("Slug = %q, want the post id %q", post.Slug, post.ID)
	}
}

func TestCreatePost_DerivesExcerptWhenBlank(t *testing.T) {
	svc := newTestService()

	post, err := svc.CreatePost(context.Background(), testAuthor, domain.CreatePostData{
		Title:   "No Excerpt",
		Content: "# Heading\n\nFirst paragraph of prose.\n\nSecond paragraph.",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if post.Excerpt != "First paragraph of prose." {
		t.Errorf("Excerpt = %q, want first paragraph", post.Excerpt)
	}
}

func TestUpdatePost_PatchesFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Original Title",
		Excerpt: "Original excerpt",
		Content: "one two three",
		Tags:    []string{"Go"},
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	updated, err := svc.UpdatePost(ctx, domain.UpdatePostData{
		ID:    created.ID,
		Title: strPtr("New Title"),
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if updated.Title != "New Title" {
		t.Errorf("Title = %q, want %q", updated.Title, "New Title")
	}
	if updated.Slug != created.Slug {
		t.Errorf("Slug changed on update: %q -> %q", created.Slug, updated.Slug)
	}
	if updated.Excerpt != created.Excerpt {
		t.Errorf("Excerpt changed without being patched: %q", updated.Excerpt)
	}
	if updated.UpdatedAt.Before(created.UpdatedAt) {
		t.Errorf("UpdatedAt went backwards: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.PublishedAt.Equal(created.PublishedAt) {
		t.Errorf("PublishedAt changed on update")
	}
}

func TestUpdatePost_DoesNotRederiveReadTime(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Read Time Stays",
		Content: "short",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	longContent := strings.Repeat("word ", 1000)
	updated, err := svc.UpdatePost(ctx, domain.UpdatePostData{
		ID:      created.ID,
		Content: &longContent,
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if updated.ReadTime != created.ReadTime {
		t.Errorf("ReadTime = %d after content update, want unchanged %d", updated.ReadTime, created.ReadTime)
	}
}

func TestUpdatePost_PublishFlipsDraft(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "Draft to Published",
		Content: "content",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	updated, err := svc.UpdatePost(ctx, domain.UpdatePostData{
		ID:          created.ID,
		IsPublished: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if !updated.IsPublished || updated.IsDraft {
		t.Errorf("IsPublished=%v IsDraft=%v after publish, want true/false", updated.IsPublished, updated.IsDraft)
	}
}

func TestUpdatePost_UnknownID(t *testing.T) {
	svc := newTestService()

	_, err := svc.UpdatePost(context.Background(), domain.UpdatePostData{
		ID:    "missing",
		Title: strPtr("x"),
	})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("UpdatePost error = %v, want ErrPostNotFound", err)
	}
}

func TestDeletePost(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{
		Title:   "To Be Deleted",
		Content: "content",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := svc.DeletePost(ctx, created.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if _, err := svc.GetPost(ctx, created.Slug); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("GetPost after delete = %v, want ErrPostNotFound", err)
	}

	if err := svc.DeletePost(ctx, created.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("second DeletePost = %v, want ErrPostNotFound", err)
	}
}

func TestDeletePost_UnknownIDLeavesCollectionAlone(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Keeper", Content: "x"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := svc.DeletePost(ctx, "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("DeletePost = %v, want ErrPostNotFound", err)
	}

	posts, err := svc.ListPosts(ctx, domain.PostFilters{})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("ListPosts returned %d posts after failed delete, want 1", len(posts))
	}
}

func TestGetPost_UnknownSlug(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetPost(context.Background(), "non-existent-slug")
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("GetPost error = %v, want ErrPostNotFound", err)
	}
}

func TestLikePost(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Likeable", Content: "x"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := svc.LikePost(ctx, created.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if err := svc.LikePost(ctx, created.ID); err != nil {
		t.Fatalf("second LikePost failed: %v", err)
	}

	got, err := svc.GetPost(ctx, created.Slug)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Likes != 2 {
		t.Errorf("Likes = %d, want 2", got.Likes)
	}

	if err := svc.LikePost(ctx, "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("LikePost on unknown id = %v, want ErrPostNotFound", err)
	}
}

func TestListPosts_PublishedFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Draft One", Content: "x"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := svc.CreatePost(ctx, testAuthor, domain.CreatePostData{Title: "Live One", Content: "x", IsPublished: boolPtr(true)}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	published, err := svc.ListPosts(ctx, domain.PostFilters{Published: boolPtr(true)})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	for _, p := range published {
		if !p.IsPublished || p.IsDraft {
			t.Errorf("post %q in published listing has IsPublished=%v IsDraft=%v", p.Slug, p.IsPublished, p.IsDraft)
		}
	}
	if len(published) != 1 {
		t.Errorf("published listing has %d posts, want 1", len(published))
	}

	drafts, err := svc.ListPosts(ctx, domain.PostFilters{Published: boolPtr(false)})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	for _, p := range drafts {
		if p.IsPublished || !p.IsDraft {
			t.Errorf("post %q in draft listing has IsPublished=%v IsDraft=%v", p.Slug, p.IsPublished, p.IsDraft)
		}
	}
}
