package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/api/internal/ids"
	"inkwell/api/internal/middleware"
	"inkwell/api/internal/models"
	"inkwell/api/internal/pagination"
	"inkwell/api/internal/repository"
)

type postResponse struct {
	ID         string               `json:"id"`
	BlogID     string               `json:"blogId"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	Categories []string             `json:"categories"`
	Comments   []models.PostComment `json:"comments"`
	Images     []models.PostImage   `json:"images"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func toPostResponse(post models.Post) postResponse {
	resp := postResponse{
		ID:         post.ID,
		BlogID:     post.BlogID,
		Title:      post.Title,
		Content:    post.Content,
		Categories: post.Categories,
		Comments:   post.Comments,
		Images:     post.Images,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	if resp.Comments == nil {
		resp.Comments = []models.PostComment{}
	}
	if resp.Images == nil {
		resp.Images = []models.PostImage{}
	}
	return resp
}

type createPostRequest struct {
	Title      string   `json:"title" binding:"required,max=255"`
	Content    string   `json:"content" binding:"required"`
	Categories []string `json:"categories"`
}

func (h HandlerSet) CreatePost(c *gin.Context) {
	blogID := c.Param("id")
	if _, err := h.blogs.GetByID(c.Request.Context(), blogID); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("load blog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		ID:         ids.New(),
		BlogID:     blogID,
		Title:      req.Title,
		Content:    req.Content,
		Categories: req.Categories,
	}
	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		if errors.Is(err, repository.ErrDuplicatePost) {
			c.JSON(http.StatusConflict, gin.H{"error": "post_title_taken"})
			return
		}
		h.log.Error().Err(err).Msg("create post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": toPostResponse(post)})
}

func (h HandlerSet) ListPosts(c *gin.Context) {
	page := pagination.FromQuery(c)

	posts, err := h.posts.ListByBlog(c.Request.Context(), c.Param("id"), page.Take, page.Offset(), page.Desc)
	if err != nil {
		h.log.Error().Err(err).Msg("list posts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	resp := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}
	c.JSON(http.StatusOK, gin.H{"posts": resp, "page": page.Page, "take": page.Take})
}

func (h HandlerSet) GetPost(c *gin.Context) {
	post, err := h.posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toPostResponse(post)})
}

type updatePostRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Categories []string `json:"categories"`
}

func (h HandlerSet) UpdatePost(c *gin.Context) {
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.posts.Update(c.Request.Context(), c.Param("id"), req.Title, req.Content, req.Categories)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
		case errors.Is(err, repository.ErrDuplicatePost):
			c.JSON(http.StatusConflict, gin.H{"error": "post_title_taken"})
		default:
			h.log.Error().Err(err).Msg("update post failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

type addCommentRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment" binding:"required"`
}

func (h HandlerSet) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := req.Name
	if name == "" {
		// fall back to the authenticated username
		if claims, ok := middleware.ClaimsFrom(c); ok {
			name = claims.Username
		}
	}

	comment := models.PostComment{
		Name:      name,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.posts.AddComment(c.Request.Context(), c.Param("id"), comment); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("add comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h HandlerSet) UploadPostImage(c *gin.Context) {
	postID := c.Param("id")
	if _, err := h.posts.GetByID(c.Request.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("load post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	upload, err := h.media.Upload(c.Request.Context(), "posts/"+postID, file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image := models.PostImage{
		ID:  upload.ID,
		URL: upload.URL,
		Tag: c.PostForm("tag"),
	}
	if err := h.posts.AddImage(c.Request.Context(), postID, image); err != nil {
		h.log.Error().Err(err).Msg("attach post image failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": image})
}

func (h HandlerSet) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("delete post failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.Status(http.StatusNoContent)
}
