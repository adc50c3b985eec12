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

type blogResponse struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"ownerId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    *string           `json:"imageUrl,omitempty"`
	Assignees   []models.Assignee `json:"assignees"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func toBlogResponse(blog models.Blog) blogResponse {
	assignees := blog.Assignees
	if assignees == nil {
		assignees = []models.Assignee{}
	}
	return blogResponse{
		ID:          blog.ID,
		OwnerID:     blog.OwnerID,
		Name:        blog.Name,
		Description: blog.Description,
		ImageURL:    blog.ImageURL,
		Assignees:   assignees,
		CreatedAt:   blog.CreatedAt,
		UpdatedAt:   blog.UpdatedAt,
	}
}

type createBlogRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"required,max=500"`
}

func (h HandlerSet) CreateBlog(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blog := models.Blog{
		ID:          ids.New(),
		OwnerID:     claims.Subject,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.blogs.Create(c.Request.Context(), blog); err != nil {
		h.log.Error().Err(err).Msg("create blog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"blog": toBlogResponse(blog)})
}

func (h HandlerSet) ListBlogs(c *gin.Context) {
	page := pagination.FromQuery(c)

	blogs, err := h.blogs.List(c.Request.Context(), page.Take, page.Offset(), page.Desc)
	if err != nil {
		h.log.Error().Err(err).Msg("list blogs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	resp := make([]blogResponse, 0, len(blogs))
	for _, blog := range blogs {
		resp = append(resp, toBlogResponse(blog))
	}
	c.JSON(http.StatusOK, gin.H{"blogs": resp, "page": page.Page, "take": page.Take})
}

func (h HandlerSet) GetBlog(c *gin.Context) {
	blog, err := h.blogs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get blog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blog": toBlogResponse(blog)})
}

type updateBlogRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func (h HandlerSet) UpdateBlog(c *gin.Context) {
	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.blogs.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description, req.ImageURL)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("update blog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.Status(http.StatusNoContent)
}

type updateAssigneesRequest struct {
	Assignees []models.Assignee `json:"assignees" binding:"required"`
}

func (h HandlerSet) UpdateAssignees(c *gin.Context) {
	var req updateAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.blogs.UpdateAssignees(c.Request.Context(), c.Param("id"), req.Assignees)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("update assignees failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) DeleteBlog(c *gin.Context) {
	if err := h.blogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog_not_found"})
			return
		}
		h.log.Error().Err(err).Msg("delete blog failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.Status(http.StatusNoContent)
}
