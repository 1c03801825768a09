package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/middleware"
)

// PostController handles the class feed
type PostController struct {
	postService services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService) *PostController {
	return &PostController{postService: postService}
}

// ListPosts godoc
// @Summary List class posts
// @Description Returns the newest posts in chronological order
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param type query string false "chat, question or announcement"
// @Param limit query int false "Maximum posts (default 100)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /classes/{id}/posts [get]
func (pc *PostController) ListPosts(c *gin.Context) {
	var query dto.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	posts, err := pc.postService.ListPosts(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), query)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// CreatePost godoc
// @Summary Post in a class
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} map[string]dto.PostResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /classes/{id}/posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	post, err := pc.postService.CreatePost(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// GetPost godoc
// @Summary Get a post
// @Description Soft-deleted posts are returned with placeholder content
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} map[string]dto.PostResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{postId} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.postService.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// EditPost godoc
// @Summary Edit a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Param request body dto.UpdatePostRequest true "New content"
// @Success 200 {object} map[string]dto.PostResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{postId} [put]
func (pc *PostController) EditPost(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	post, err := pc.postService.EditPost(c.Request.Context(), middleware.GetUserID(c), c.Param("postId"), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path string true "Post ID"
// @Success 200 {object} map[string]dto.PostResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /posts/{postId} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	post, err := pc.postService.DeletePost(c.Request.Context(), middleware.GetUserID(c), c.Param("postId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}
