package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_tag_store.go -package=mocks github.com/account-closed/Ref39TopicAssistant/internal/storage TagStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

// TagStore defines the interface for tag storage operations.
type TagStore interface {
	List(ctx context.Context) ([]model.Tag, error)
	Get(ctx context.Context, id string) (model.Tag, error)
	Create(ctx context.Context, req model.CreateTagRequest) (model.Tag, error)
	Update(ctx context.Context, id string, req model.UpdateTagRequest) (model.Tag, error)
	Delete(ctx context.Context, id string) error
}

// TagRepo provides tag CRUD with optimistic concurrency. It implements
// the TagStore interface.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo creates a new TagRepo.
func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

const tagColumns = "id, name, search_keywords, hinweise, copy_paste_text, color, is_super_tag, is_gvpl_tag, created_at, modified_at, created_by, version"

// List returns all tags ordered by name.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+tagColumns+" FROM tags ORDER BY name")
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err)
	}
	return tags, nil
}

// Get returns the tag with the given id.
func (r *TagRepo) Get(ctx context.Context, id string) (model.Tag, error) {
	return getTag(ctx, r.db, id)
}

func getTag(ctx context.Context, q querier, id string) (model.Tag, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+tagColumns+" FROM tags WHERE id = ?", id)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Tag{}, apperr.NotFound("tag %s not found", id)
	}
	if err != nil {
		return model.Tag{}, apperr.Database(err)
	}
	return t, nil
}

// Create inserts a new tag with a fresh identity and version 1.
func (r *TagRepo) Create(ctx context.Context, req model.CreateTagRequest) (model.Tag, error) {
	ts := now()
	t := model.Tag{
		ID:             uuid.NewString(),
		Name:           req.Name,
		SearchKeywords: req.SearchKeywords,
		Hinweise:       req.Hinweise,
		CopyPasteText:  req.CopyPasteText,
		Color:          req.Color,
		IsSuperTag:     req.IsSuperTag,
		IsGvplTag:      req.IsGvplTag,
		CreatedAt:      ts,
		ModifiedAt:     ts,
		CreatedBy:      req.CreatedBy,
		Version:        1,
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, search_keywords, hinweise, copy_paste_text, color, is_super_tag, is_gvpl_tag, created_at, modified_at, created_by, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			t.ID, t.Name, encodeList(t.SearchKeywords), nullIfEmpty(t.Hinweise),
			nullIfEmpty(t.CopyPasteText), nullIfEmpty(t.Color),
			encodeBoolPtr(t.IsSuperTag), encodeBoolPtr(t.IsGvplTag),
			t.CreatedAt, t.ModifiedAt, t.CreatedBy)
		if err != nil {
			return apperr.Database(err)
		}
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Tag{}, err
	}
	return t, nil
}

// Update applies a partial change set gated by the record's version.
// CreatedAt and CreatedBy never change after creation.
func (r *TagRepo) Update(ctx context.Context, id string, req model.UpdateTagRequest) (model.Tag, error) {
	var updated model.Tag
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getTag(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
			return apperr.Conflict(
				fmt.Sprintf("version mismatch: expected %d, current %d", *req.ExpectedVersion, existing.Version),
				existing.Version)
		}

		merged := existing
		if req.Name != nil {
			merged.Name = *req.Name
		}
		if req.SearchKeywords != nil {
			merged.SearchKeywords = req.SearchKeywords
		}
		if req.Hinweise != nil {
			merged.Hinweise = *req.Hinweise
		}
		if req.CopyPasteText != nil {
			merged.CopyPasteText = *req.CopyPasteText
		}
		if req.Color != nil {
			merged.Color = *req.Color
		}
		if req.IsSuperTag != nil {
			merged.IsSuperTag = req.IsSuperTag
		}
		if req.IsGvplTag != nil {
			merged.IsGvplTag = req.IsGvplTag
		}
		merged.ModifiedAt = now()
		merged.Version = existing.Version + 1

		res, err := tx.ExecContext(ctx,
			`UPDATE tags SET name = ?, search_keywords = ?, hinweise = ?, copy_paste_text = ?, color = ?, is_super_tag = ?, is_gvpl_tag = ?, modified_at = ?, version = ?
			 WHERE id = ? AND version = ?`,
			merged.Name, encodeList(merged.SearchKeywords), nullIfEmpty(merged.Hinweise),
			nullIfEmpty(merged.CopyPasteText), nullIfEmpty(merged.Color),
			encodeBoolPtr(merged.IsSuperTag), encodeBoolPtr(merged.IsGvplTag),
			merged.ModifiedAt, merged.Version, id, existing.Version)
		if err != nil {
			return apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Database(err)
		}
		if n == 0 {
			current, err := getTag(ctx, tx, id)
			if err != nil {
				return apperr.Conflict("concurrent modification detected", 0)
			}
			return apperr.Conflict("concurrent modification detected", current.Version)
		}

		updated = merged
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Tag{}, err
	}
	return updated, nil
}

// Delete removes the tag and bumps the global revision.
func (r *TagRepo) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
		if err != nil {
			return apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Database(err)
		}
		if n == 0 {
			return apperr.NotFound("tag %s not found", id)
		}
		return bumpRevision(ctx, tx)
	})
}

func (r *TagRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return runInTx(ctx, r.db, fn)
}

func scanTag(sc interface{ Scan(...any) error }) (model.Tag, error) {
	var t model.Tag
	var keywords, hinweise, copyPaste, color sql.NullString
	var isSuper, isGvpl sql.NullInt64
	err := sc.Scan(&t.ID, &t.Name, &keywords, &hinweise, &copyPaste, &color,
		&isSuper, &isGvpl, &t.CreatedAt, &t.ModifiedAt, &t.CreatedBy, &t.Version)
	if err != nil {
		return model.Tag{}, err
	}
	if t.SearchKeywords, err = decodeList(keywords); err != nil {
		return model.Tag{}, err
	}
	t.Hinweise = hinweise.String
	t.CopyPasteText = copyPaste.String
	t.Color = color.String
	t.IsSuperTag = decodeBoolPtr(isSuper)
	t.IsGvplTag = decodeBoolPtr(isGvpl)
	return t, nil
}
