package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_member_store.go -package=mocks github.com/account-closed/Ref39TopicAssistant/internal/storage MemberStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

// MemberStore defines the interface for member storage operations.
type MemberStore interface {
	List(ctx context.Context) ([]model.Member, error)
	Get(ctx context.Context, id string) (model.Member, error)
	Create(ctx context.Context, req model.CreateMemberRequest) (model.Member, error)
	Update(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error)
	Delete(ctx context.Context, id string) error
}

// MemberRepo provides member CRUD with optimistic concurrency. It
// implements the MemberStore interface.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

const memberColumns = "id, display_name, email, active, tags, color, updated_at, version"

// List returns all members ordered by display name.
func (r *MemberRepo) List(ctx context.Context) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members ORDER BY display_name")
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err)
	}
	return members, nil
}

// Get returns the member with the given id.
func (r *MemberRepo) Get(ctx context.Context, id string) (model.Member, error) {
	return getMember(ctx, r.db, id)
}

func getMember(ctx context.Context, q querier, id string) (model.Member, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Member{}, apperr.NotFound("member %s not found", id)
	}
	if err != nil {
		return model.Member{}, apperr.Database(err)
	}
	return m, nil
}

// Create inserts a new member with a fresh identity and version 1, and
// bumps the global revision in the same transaction.
func (r *MemberRepo) Create(ctx context.Context, req model.CreateMemberRequest) (model.Member, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	m := model.Member{
		ID:          uuid.NewString(),
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Active:      active,
		Tags:        req.Tags,
		Color:       req.Color,
		UpdatedAt:   now(),
		Version:     1,
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO members (id, display_name, email, active, tags, color, updated_at, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
			m.ID, m.DisplayName, nullIfEmpty(m.Email), boolToInt(m.Active),
			encodeList(m.Tags), nullIfEmpty(m.Color), m.UpdatedAt)
		if err != nil {
			return apperr.Database(err)
		}
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// Update applies a partial change set gated by the record's version. If
// ExpectedVersion is set and stale, or a concurrent writer wins the race
// to the conditional write, it fails with a version mismatch carrying the
// current version.
func (r *MemberRepo) Update(ctx context.Context, id string, req model.UpdateMemberRequest) (model.Member, error) {
	var updated model.Member
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getMember(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
			return apperr.Conflict(
				fmt.Sprintf("version mismatch: expected %d, current %d", *req.ExpectedVersion, existing.Version),
				existing.Version)
		}

		merged := existing
		if req.DisplayName != nil {
			merged.DisplayName = *req.DisplayName
		}
		if req.Email != nil {
			merged.Email = *req.Email
		}
		if req.Active != nil {
			merged.Active = *req.Active
		}
		if req.Tags != nil {
			merged.Tags = req.Tags
		}
		if req.Color != nil {
			merged.Color = *req.Color
		}
		merged.UpdatedAt = now()
		merged.Version = existing.Version + 1

		res, err := tx.ExecContext(ctx,
			`UPDATE members SET display_name = ?, email = ?, active = ?, tags = ?, color = ?, updated_at = ?, version = ?
			 WHERE id = ? AND version = ?`,
			merged.DisplayName, nullIfEmpty(merged.Email), boolToInt(merged.Active),
			encodeList(merged.Tags), nullIfEmpty(merged.Color), merged.UpdatedAt,
			merged.Version, id, existing.Version)
		if err != nil {
			return apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Database(err)
		}
		if n == 0 {
			// A concurrent writer won between our read and write.
			current, err := getMember(ctx, tx, id)
			if err != nil {
				return apperr.Conflict("concurrent modification detected", 0)
			}
			return apperr.Conflict("concurrent modification detected", current.Version)
		}

		updated = merged
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Member{}, err
	}
	return updated, nil
}

// Delete removes the member and bumps the global revision. Deleting a
// missing member fails with NotFound and leaves the revision unchanged.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
		if err != nil {
			return apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Database(err)
		}
		if n == 0 {
			return apperr.NotFound("member %s not found", id)
		}
		return bumpRevision(ctx, tx)
	})
}

func (r *MemberRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return runInTx(ctx, r.db, fn)
}

func scanMember(sc interface{ Scan(...any) error }) (model.Member, error) {
	var m model.Member
	var email, tags, color sql.NullString
	var active int
	err := sc.Scan(&m.ID, &m.DisplayName, &email, &active, &tags, &color, &m.UpdatedAt, &m.Version)
	if err != nil {
		return model.Member{}, err
	}
	m.Email = email.String
	m.Active = active != 0
	if m.Tags, err = decodeList(tags); err != nil {
		return model.Member{}, err
	}
	m.Color = color.String
	return m, nil
}
