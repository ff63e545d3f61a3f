package api

import "github.com/blogify-app/blogify/blog/domain"

// PostList is the listing response. Posts keeps collection order.
type PostList struct {
	Posts []*domain.Post `json:"posts"`
	Total int            `json:"total"`
}

// PostDetail is the single-post response: the post plus its content rendered
// to sanitized HTML.
type PostDetail struct {
	*domain.Post
	ContentHTML string `json:"contentHtml"`
}
