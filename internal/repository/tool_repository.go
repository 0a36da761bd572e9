package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("record not found")

type ToolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

const toolColumns = `id, created_at, name, description, category, price, tags, website, image_url,
	features, use_cases, pros, cons, how_to_use, slides, tutorial, course, page`

// toolRow is the storage shape of a tool: snake_case columns, nullable text and
// jsonb learning content.
type toolRow struct {
	description sql.NullString
	category    sql.NullString
	price       sql.NullString
	website     sql.NullString
	imageURL    sql.NullString
	howToUse    sql.NullString
	page        sql.NullString
	slides      []byte
	tutorial    []byte
	course      []byte
}

func (r *toolRow) targets(t *model.Tool) []any {
	return []any{
		&t.ID, &t.CreatedAt, &t.Name, &r.description, &r.category, &r.price,
		pq.Array(&t.Tags), &r.website, &r.imageURL,
		pq.Array(&t.Features), pq.Array(&t.UseCases), pq.Array(&t.Pros), pq.Array(&t.Cons),
		&r.howToUse, &r.slides, &r.tutorial, &r.course, &r.page,
	}
}

func (r *toolRow) apply(t *model.Tool) error {
	t.Description = r.description.String
	t.Category = r.category.String
	t.Price = r.price.String
	t.Website = r.website.String
	t.ImageURL = r.imageURL.String
	t.HowToUse = r.howToUse.String
	t.Page = r.page.String

	if err := decodeJSONColumn(r.slides, &t.Slides); err != nil {
		return fmt.Errorf("decode slides: %w", err)
	}
	if err := decodeJSONColumn(r.tutorial, &t.Tutorial); err != nil {
		return fmt.Errorf("decode tutorial: %w", err)
	}
	if len(r.course) > 0 && string(r.course) != "null" {
		var c model.Course
		if err := json.Unmarshal(r.course, &c); err != nil {
			return fmt.Errorf("decode course: %w", err)
		}
		t.Course = &c
	}
	return nil
}

func (r *ToolRepository) List(ctx context.Context) ([]model.Tool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+toolColumns+`
		FROM tools
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	tools := []model.Tool{}
	for rows.Next() {
		var t model.Tool
		var row toolRow
		if err := rows.Scan(row.targets(&t)...); err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		if err := row.apply(&t); err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tools, nil
}

func (r *ToolRepository) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	var t model.Tool
	var row toolRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+toolColumns+`
		FROM tools
		WHERE id = $1
	`, id).Scan(row.targets(&t)...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tool: %w", err)
	}
	if err := row.apply(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Insert stores a new tool. The id is assigned by the database and written back.
func (r *ToolRepository) Insert(ctx context.Context, tool *model.Tool) error {
	args, err := toolArgs(tool)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO tools(name, description, category, price, tags, website, image_url,
			features, use_cases, pros, cons, how_to_use, slides, tutorial, course, page)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at
	`, args...).Scan(&tool.ID, &tool.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tool: %w", err)
	}
	return nil
}

func (r *ToolRepository) Update(ctx context.Context, id string, tool *model.Tool) error {
	args, err := toolArgs(tool)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE tools SET name = $1, description = $2, category = $3, price = $4, tags = $5,
			website = $6, image_url = $7, features = $8, use_cases = $9, pros = $10, cons = $11,
			how_to_use = $12, slides = $13, tutorial = $14, course = $15, page = $16
		WHERE id = $17
	`, append(args, id)...)
	if err != nil {
		return fmt.Errorf("update tool: %w", err)
	}
	return expectAffected(res)
}

// SetSlides, SetTutorial and SetCourse each write a single jsonb column and
// leave the rest of the row untouched.
func (r *ToolRepository) SetSlides(ctx context.Context, id string, slides []model.Slide) error {
	return r.setContent(ctx, id, "slides", slides, len(slides) == 0)
}

func (r *ToolRepository) SetTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error {
	return r.setContent(ctx, id, "tutorial", tutorial, len(tutorial) == 0)
}

func (r *ToolRepository) SetCourse(ctx context.Context, id string, course *model.Course) error {
	return r.setContent(ctx, id, "course", course, course == nil)
}

// column is one of the fixed content column names above, never caller input.
func (r *ToolRepository) setContent(ctx context.Context, id, column string, v any, empty bool) error {
	value, err := encodeJSONColumn(v, empty)
	if err != nil {
		return fmt.Errorf("encode %s: %w", column, err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE tools SET `+column+` = $1 WHERE id = $2`, value, id)
	if err != nil {
		return fmt.Errorf("update tool %s: %w", column, err)
	}
	return expectAffected(res)
}

func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tool: %w", err)
	}
	return expectAffected(res)
}

func toolArgs(t *model.Tool) ([]any, error) {
	slides, err := encodeJSONColumn(t.Slides, len(t.Slides) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode slides: %w", err)
	}
	tutorial, err := encodeJSONColumn(t.Tutorial, len(t.Tutorial) == 0)
	if err != nil {
		return nil, fmt.Errorf("encode tutorial: %w", err)
	}
	course, err := encodeJSONColumn(t.Course, t.Course == nil)
	if err != nil {
		return nil, fmt.Errorf("encode course: %w", err)
	}

	return []any{
		t.Name, t.Description, t.Category, t.Price, pq.Array(nonNil(t.Tags)), t.Website, t.ImageURL,
		pq.Array(nonNil(t.Features)), pq.Array(nonNil(t.UseCases)), pq.Array(nonNil(t.Pros)), pq.Array(nonNil(t.Cons)),
		t.HowToUse, slides, tutorial, course, t.PageOrDefault(),
	}, nil
}

func encodeJSONColumn(v any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func decodeJSONColumn[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
