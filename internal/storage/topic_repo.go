package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_topic_store.go -package=mocks github.com/account-closed/Ref39TopicAssistant/internal/storage TopicStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

// TopicStore defines the interface for topic storage operations.
type TopicStore interface {
	List(ctx context.Context) ([]model.Topic, error)
	Get(ctx context.Context, id string) (model.Topic, error)
	Create(ctx context.Context, req model.CreateTopicRequest) (model.Topic, error)
	Update(ctx context.Context, id string, req model.UpdateTopicRequest) (model.Topic, error)
	Delete(ctx context.Context, id string) error
	// BatchUpdate applies every update in one transaction. If any record
	// is missing or fails its version check, nothing changes. On success
	// the global revision advances exactly once for the whole batch.
	BatchUpdate(ctx context.Context, updates []model.BatchTopicUpdate) ([]model.Topic, error)
}

// TopicRepo provides topic CRUD with optimistic concurrency, including
// atomic batch updates. It implements the TopicStore interface.
type TopicRepo struct {
	db *sql.DB
}

// NewTopicRepo creates a new TopicRepo.
func NewTopicRepo(db *sql.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

const topicColumns = `id, header, description, tags, search_keywords,
	validity_always_valid, validity_valid_from, validity_valid_to,
	notes, raci_r1_member_id, raci_r2_member_id, raci_r3_member_id,
	raci_c_member_ids, raci_i_member_ids, updated_at, priority,
	has_file_number, file_number, has_shared_file_path, shared_file_path,
	size, version`

// List returns all topics ordered by header.
func (r *TopicRepo) List(ctx context.Context) ([]model.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+topicColumns+" FROM topics ORDER BY header")
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, apperr.Database(err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(err)
	}
	return topics, nil
}

// Get returns the topic with the given id.
func (r *TopicRepo) Get(ctx context.Context, id string) (model.Topic, error) {
	return getTopic(ctx, r.db, id)
}

func getTopic(ctx context.Context, q querier, id string) (model.Topic, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+topicColumns+" FROM topics WHERE id = ?", id)
	t, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Topic{}, apperr.NotFound("topic %s not found", id)
	}
	if err != nil {
		return model.Topic{}, apperr.Database(err)
	}
	return t, nil
}

// Create inserts a new topic with a fresh identity and version 1.
func (r *TopicRepo) Create(ctx context.Context, req model.CreateTopicRequest) (model.Topic, error) {
	validity := model.DefaultValidity()
	if req.Validity != nil {
		validity = *req.Validity
	}
	t := model.Topic{
		ID:                uuid.NewString(),
		Header:            req.Header,
		Description:       req.Description,
		Tags:              req.Tags,
		SearchKeywords:    req.SearchKeywords,
		Validity:          validity,
		Notes:             req.Notes,
		Raci:              req.Raci,
		UpdatedAt:         now(),
		Priority:          req.Priority,
		HasFileNumber:     req.HasFileNumber,
		FileNumber:        req.FileNumber,
		HasSharedFilePath: req.HasSharedFilePath,
		SharedFilePath:    req.SharedFilePath,
		Size:              req.Size,
		Version:           1,
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertTopic(ctx, tx, t); err != nil {
			return err
		}
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Topic{}, err
	}
	return t, nil
}

// Update applies a partial change set gated by the record's version.
func (r *TopicRepo) Update(ctx context.Context, id string, req model.UpdateTopicRequest) (model.Topic, error) {
	var updated model.Topic
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		t, err := applyTopicUpdate(ctx, tx, id, req)
		if err != nil {
			return err
		}
		updated = t
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return model.Topic{}, err
	}
	return updated, nil
}

// Delete removes the topic and bumps the global revision.
func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM topics WHERE id = ?", id)
		if err != nil {
			return apperr.Database(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Database(err)
		}
		if n == 0 {
			return apperr.NotFound("topic %s not found", id)
		}
		return bumpRevision(ctx, tx)
	})
}

// BatchUpdate applies every update inside one transaction with the same
// per-record conditional-write rule as Update. Any failure aborts the
// whole batch; success bumps the revision exactly once.
func (r *TopicRepo) BatchUpdate(ctx context.Context, updates []model.BatchTopicUpdate) ([]model.Topic, error) {
	results := make([]model.Topic, 0, len(updates))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, u := range updates {
			t, err := applyTopicUpdate(ctx, tx, u.TopicID, u.Changes)
			if err != nil {
				return err
			}
			results = append(results, t)
		}
		return bumpRevision(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *TopicRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return runInTx(ctx, r.db, fn)
}

// applyTopicUpdate performs the read-merge-conditional-write cycle for a
// single topic inside tx. The conditional WHERE id=? AND version=? is the
// compare-and-swap: zero rows affected means a concurrent writer won.
func applyTopicUpdate(ctx context.Context, tx *sql.Tx, id string, req model.UpdateTopicRequest) (model.Topic, error) {
	existing, err := getTopic(ctx, tx, id)
	if err != nil {
		return model.Topic{}, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != existing.Version {
		return model.Topic{}, apperr.Conflict(
			fmt.Sprintf("version mismatch for topic %s: expected %d, current %d", id, *req.ExpectedVersion, existing.Version),
			existing.Version)
	}

	merged := mergeTopic(existing, req)

	res, err := tx.ExecContext(ctx,
		`UPDATE topics SET
			header = ?, description = ?, tags = ?, search_keywords = ?,
			validity_always_valid = ?, validity_valid_from = ?, validity_valid_to = ?,
			notes = ?, raci_r1_member_id = ?, raci_r2_member_id = ?, raci_r3_member_id = ?,
			raci_c_member_ids = ?, raci_i_member_ids = ?, updated_at = ?, priority = ?,
			has_file_number = ?, file_number = ?, has_shared_file_path = ?, shared_file_path = ?,
			size = ?, version = ?
		 WHERE id = ? AND version = ?`,
		merged.Header, nullIfEmpty(merged.Description), encodeList(merged.Tags),
		encodeList(merged.SearchKeywords), boolToInt(merged.Validity.AlwaysValid),
		nullIfEmpty(merged.Validity.ValidFrom), nullIfEmpty(merged.Validity.ValidTo),
		nullIfEmpty(merged.Notes), merged.Raci.R1MemberID,
		nullIfEmpty(merged.Raci.R2MemberID), nullIfEmpty(merged.Raci.R3MemberID),
		encodeList(merged.Raci.CMemberIDs), encodeList(merged.Raci.IMemberIDs),
		merged.UpdatedAt, merged.Priority,
		encodeBoolPtr(merged.HasFileNumber), nullIfEmpty(merged.FileNumber),
		encodeBoolPtr(merged.HasSharedFilePath), nullIfEmpty(merged.SharedFilePath),
		nullIfEmpty(string(merged.Size)), merged.Version, id, existing.Version)
	if err != nil {
		return model.Topic{}, apperr.Database(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Topic{}, apperr.Database(err)
	}
	if n == 0 {
		current, err := getTopic(ctx, tx, id)
		if err != nil {
			return model.Topic{}, apperr.Conflict("concurrent modification detected", 0)
		}
		return model.Topic{}, apperr.Conflict(
			fmt.Sprintf("concurrent modification detected for topic %s", id), current.Version)
	}

	return merged, nil
}

// mergeTopic applies the shallow merge: unset request fields keep the
// stored value.
func mergeTopic(existing model.Topic, req model.UpdateTopicRequest) model.Topic {
	merged := existing
	if req.Header != nil {
		merged.Header = *req.Header
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.Tags != nil {
		merged.Tags = req.Tags
	}
	if req.SearchKeywords != nil {
		merged.SearchKeywords = req.SearchKeywords
	}
	if req.Validity != nil {
		merged.Validity = *req.Validity
	}
	if req.Notes != nil {
		merged.Notes = *req.Notes
	}
	if req.Raci != nil {
		merged.Raci = *req.Raci
	}
	if req.Priority != nil {
		merged.Priority = req.Priority
	}
	if req.HasFileNumber != nil {
		merged.HasFileNumber = req.HasFileNumber
	}
	if req.FileNumber != nil {
		merged.FileNumber = *req.FileNumber
	}
	if req.HasSharedFilePath != nil {
		merged.HasSharedFilePath = req.HasSharedFilePath
	}
	if req.SharedFilePath != nil {
		merged.SharedFilePath = *req.SharedFilePath
	}
	if req.Size != "" {
		merged.Size = req.Size
	}
	merged.UpdatedAt = now()
	merged.Version = existing.Version + 1
	return merged
}

func insertTopic(ctx context.Context, tx *sql.Tx, t model.Topic) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO topics (
			id, header, description, tags, search_keywords,
			validity_always_valid, validity_valid_from, validity_valid_to,
			notes, raci_r1_member_id, raci_r2_member_id, raci_r3_member_id,
			raci_c_member_ids, raci_i_member_ids, updated_at, priority,
			has_file_number, file_number, has_shared_file_path, shared_file_path,
			size, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		t.ID, t.Header, nullIfEmpty(t.Description), encodeList(t.Tags),
		encodeList(t.SearchKeywords), boolToInt(t.Validity.AlwaysValid),
		nullIfEmpty(t.Validity.ValidFrom), nullIfEmpty(t.Validity.ValidTo),
		nullIfEmpty(t.Notes), t.Raci.R1MemberID,
		nullIfEmpty(t.Raci.R2MemberID), nullIfEmpty(t.Raci.R3MemberID),
		encodeList(t.Raci.CMemberIDs), encodeList(t.Raci.IMemberIDs),
		t.UpdatedAt, t.Priority,
		encodeBoolPtr(t.HasFileNumber), nullIfEmpty(t.FileNumber),
		encodeBoolPtr(t.HasSharedFilePath), nullIfEmpty(t.SharedFilePath),
		nullIfEmpty(string(t.Size)))
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}

func scanTopic(sc interface{ Scan(...any) error }) (model.Topic, error) {
	var t model.Topic
	var description, validFrom, validTo, notes sql.NullString
	var r2, r3, cIDs, iIDs, fileNumber, sharedPath, size sql.NullString
	var tags, keywords sql.NullString
	var alwaysValid int
	var priority sql.NullInt64
	var hasFileNumber, hasSharedPath sql.NullInt64

	err := sc.Scan(&t.ID, &t.Header, &description, &tags, &keywords,
		&alwaysValid, &validFrom, &validTo,
		&notes, &t.Raci.R1MemberID, &r2, &r3,
		&cIDs, &iIDs, &t.UpdatedAt, &priority,
		&hasFileNumber, &fileNumber, &hasSharedPath, &sharedPath,
		&size, &t.Version)
	if err != nil {
		return model.Topic{}, err
	}

	t.Description = description.String
	if t.Tags, err = decodeList(tags); err != nil {
		return model.Topic{}, err
	}
	if t.SearchKeywords, err = decodeList(keywords); err != nil {
		return model.Topic{}, err
	}
	t.Validity = model.Validity{
		AlwaysValid: alwaysValid != 0,
		ValidFrom:   validFrom.String,
		ValidTo:     validTo.String,
	}
	t.Notes = notes.String
	t.Raci.R2MemberID = r2.String
	t.Raci.R3MemberID = r3.String
	if t.Raci.CMemberIDs, err = decodeList(cIDs); err != nil {
		return model.Topic{}, err
	}
	if t.Raci.IMemberIDs, err = decodeList(iIDs); err != nil {
		return model.Topic{}, err
	}
	if priority.Valid {
		p := int(priority.Int64)
		t.Priority = &p
	}
	t.HasFileNumber = decodeBoolPtr(hasFileNumber)
	t.FileNumber = fileNumber.String
	t.HasSharedFilePath = decodeBoolPtr(hasSharedPath)
	t.SharedFilePath = sharedPath.String
	t.Size = model.TShirtSize(size.String)
	return t, nil
}
