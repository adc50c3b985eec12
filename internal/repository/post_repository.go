package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell/api/internal/models"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicatePost = errors.New("post title already taken")
)

const postColumns = `id, blog_id, title, content, categories, comments, images, created_at, updated_at`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	if err := row.Scan(
		&post.ID,
		&post.BlogID,
		&post.Title,
		&post.Content,
		&post.Categories,
		&post.Comments,
		&post.Images,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func (r *PostRepository) Create(ctx context.Context, post models.Post) error {
	const query = `
		INSERT INTO posts (
			id, blog_id, title, content, categories, comments, images, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	categories := post.Categories
	if categories == nil {
		categories = []string{}
	}
	comments := post.Comments
	if comments == nil {
		comments = []models.PostComment{}
	}
	images := post.Images
	if images == nil {
		images = []models.PostImage{}
	}

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.BlogID,
		post.Title,
		post.Content,
		categories,
		comments,
		images,
	)
	if isUniqueViolation(err) {
		return ErrDuplicatePost
	}
	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *PostRepository) ListByBlog(ctx context.Context, blogID string, limit, offset int, desc bool) ([]models.Post, error) {
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE blog_id = $1 ORDER BY created_at %s LIMIT $2 OFFSET $3`, postColumns, direction)

	rows, err := r.pool.Query(ctx, query, blogID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, id string, title, content *string, categories []string) error {
	const query = `
		UPDATE posts SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			categories = COALESCE($4, categories),
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, title, content, categories)
	if isUniqueViolation(err) {
		return ErrDuplicatePost
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment appends to the jsonb comments array in one statement.
func (r *PostRepository) AddComment(ctx context.Context, id string, comment models.PostComment) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	const query = `UPDATE posts SET comments = comments || $2::jsonb, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, payload)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) AddImage(ctx context.Context, id string, image models.PostImage) error {
	payload, err := json.Marshal(image)
	if err != nil {
		return fmt.Errorf("marshal image: %w", err)
	}

	const query = `UPDATE posts SET images = images || $2::jsonb, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, payload)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}
