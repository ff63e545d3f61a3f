package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/blogify-app/blogify/internal/middleware"
)

// NewApi mounts all routes on the given engine. Write routes require a valid
// bearer token; reads are public.
func NewApi(router *gin.Engine, posts *PostHandler, auth *AuthHandler) {
	requireIdentity := middleware.RequireIdentity(auth.service)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", auth.SignUp)
		authGroup.POST("/login", auth.Login)
	}

	postsGroup := v1.Group("/posts")
	{
		postsGroup.GET("", posts.ListPosts)
		postsGroup.GET("/:slug", posts.GetPost)
		postsGroup.POST("/:id/like", posts.LikePost)

		postsGroup.POST("", requireIdentity, posts.CreatePost)
		postsGroup.PATCH("/:id", requireIdentity, posts.UpdatePost)
		postsGroup.DELETE("/:id", requireIdentity, posts.DeletePost)
	}
}
