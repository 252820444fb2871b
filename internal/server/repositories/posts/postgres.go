package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/dbx"
	"github.com/dmitrijs2005/inkpost/internal/server/models"
)

// selectPosts joins the creator; the password hash is never selected.
const selectPosts = `SELECT p.id, p.title, p.content, p.image_url, p.creator_id, p.created_at, p.updated_at,
		u.id, u.email, u.name, u.status, u.created_at
		FROM posts p JOIN users u ON u.id = p.creator_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (title, content, image_url, creator_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Content, post.ImageURL, post.CreatorID).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := selectPosts + ` WHERE p.id = $1`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate locks the post row until the surrounding transaction ends.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error) {
	query := selectPosts + ` WHERE p.id = $1 FOR UPDATE OF p`
	return scanOne(r.db.QueryRowContext(ctx, query, id))
}

// List returns posts newest first.
func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Post, error) {
	query := selectPosts + ` ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`
	return r.query(ctx, query, limit, offset)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Post, error) {
	query := selectPosts + ` WHERE p.creator_id = $1 ORDER BY p.created_at DESC, p.id DESC`
	return r.query(ctx, query, creatorID)
}

// Update stores title, content and image url and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`UPDATE posts SET title = $1, content = $2, image_url = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Content, post.ImageURL, post.ID).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (*models.Post, error) {
	p := &models.Post{Creator: &models.User{}}
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Creator.ID, &p.Creator.Email, &p.Creator.Name, &p.Creator.Status, &p.Creator.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
