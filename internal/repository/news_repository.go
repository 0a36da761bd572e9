package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"
)

type NewsRepository struct {
	db *sql.DB
}

func NewNewsRepository(db *sql.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

type newsRow struct {
	description sql.NullString
	content     sql.NullString
	source      sql.NullString
	category    sql.NullString
	imageURL    sql.NullString
	date        sql.NullTime
}

func (r *newsRow) targets(a *model.NewsArticle) []any {
	return []any{&a.ID, &a.Title, &r.description, &r.content, &r.source, &r.category, &r.imageURL, &r.date}
}

func (r *newsRow) apply(a *model.NewsArticle) {
	a.Description = r.description.String
	a.Content = r.content.String
	a.Source = r.source.String
	a.Category = r.category.String
	a.ImageURL = r.imageURL.String
	a.Date = r.date.Time
}

func (r *NewsRepository) List(ctx context.Context) ([]model.NewsArticle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, content, source, category, image_url, date
		FROM news
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	articles := []model.NewsArticle{}
	for rows.Next() {
		var a model.NewsArticle
		var row newsRow
		if err := rows.Scan(row.targets(&a)...); err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		row.apply(&a)
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *NewsRepository) GetByID(ctx context.Context, id string) (*model.NewsArticle, error) {
	var a model.NewsArticle
	var row newsRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, content, source, category, image_url, date
		FROM news
		WHERE id = $1
	`, id).Scan(row.targets(&a)...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	row.apply(&a)
	return &a, nil
}

func (r *NewsRepository) Insert(ctx context.Context, article *model.NewsArticle) error {
	if article.Date.IsZero() {
		article.Date = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO news(title, description, content, source, category, image_url, date)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, article.Title, article.Description, article.Content, article.Source, article.Category, article.ImageURL, article.Date).Scan(&article.ID)
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

func (r *NewsRepository) Update(ctx context.Context, id string, article *model.NewsArticle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE news SET title = $1, description = $2, content = $3, source = $4,
			category = $5, image_url = $6, date = $7
		WHERE id = $8
	`, article.Title, article.Description, article.Content, article.Source, article.Category, article.ImageURL, article.Date, id)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return expectAffected(res)
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return expectAffected(res)
}
