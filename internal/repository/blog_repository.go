package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/api/internal/models"
)

var ErrBlogNotFound = errors.New("blog not found")

const blogColumns = `id, owner_id, name, description, image_url, assignees, created_at, updated_at`

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

func scanBlog(row pgx.Row) (models.Blog, error) {
	var blog models.Blog
	if err := row.Scan(
		&blog.ID,
		&blog.OwnerID,
		&blog.Name,
		&blog.Description,
		&blog.ImageURL,
		&blog.Assignees,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Blog{}, ErrBlogNotFound
		}
		return models.Blog{}, err
	}
	return blog, nil
}

func (r *BlogRepository) Create(ctx context.Context, blog models.Blog) error {
	const query = `
		INSERT INTO blogs (
			id, owner_id, name, description, image_url, assignees, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	assignees := blog.Assignees
	if assignees == nil {
		assignees = []models.Assignee{}
	}

	_, err := r.pool.Exec(ctx, query,
		blog.ID,
		blog.OwnerID,
		blog.Name,
		blog.Description,
		blog.ImageURL,
		assignees,
	)
	return err
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (models.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`
	return scanBlog(r.pool.QueryRow(ctx, query, id))
}

func (r *BlogRepository) List(ctx context.Context, limit, offset int, desc bool) ([]models.Blog, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM blogs ORDER BY created_at %s LIMIT $1 OFFSET $2`, blogColumns, direction)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []models.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}
	return blogs, rows.Err()
}

func (r *BlogRepository) Update(ctx context.Context, id string, name, description, imageURL *string) error {
	const query = `
		UPDATE blogs SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			image_url = COALESCE($4, image_url),
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, name, description, imageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) UpdateAssignees(ctx context.Context, id string, assignees []models.Assignee) error {
	const query = `UPDATE blogs SET assignees = $2, updated_at = NOW() WHERE id = $1`
	if assignees == nil {
		assignees = []models.Assignee{}
	}
	cmd, err := r.pool.Exec(ctx, query, id, assignees)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM blogs WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBlogNotFound
	}
	return nil
}
