package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_revision_store.go -package=mocks github.com/account-closed/Ref39TopicAssistant/internal/storage RevisionStore

import (
	"context"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

// RevisionStore reads the global change counter. The counter advances by
// exactly 1 per committed logical write; a batch counts as one write.
type RevisionStore interface {
	// RevisionID returns the current revision counter.
	RevisionID(ctx context.Context) (int64, error)
	// RevisionInfo returns the counter with its last-mutation timestamp.
	RevisionInfo(ctx context.Context) (model.RevisionInfo, error)
	// Meta additionally returns the schema version, for datastore
	// snapshots.
	Meta(ctx context.Context) (schemaVersion int, info model.RevisionInfo, err error)
}

// RevisionRepo provides access to the meta singleton row. It implements
// the RevisionStore interface.
type RevisionRepo struct {
	db querier
}

// NewRevisionRepo creates a new RevisionRepo.
func NewRevisionRepo(db querier) *RevisionRepo {
	return &RevisionRepo{db: db}
}

// RevisionID returns the current revision counter.
func (r *RevisionRepo) RevisionID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT revision_id FROM meta WHERE id = 1").Scan(&id)
	if err != nil {
		return 0, apperr.Database(err)
	}
	return id, nil
}

// RevisionInfo returns the counter with its last-mutation timestamp.
func (r *RevisionRepo) RevisionInfo(ctx context.Context) (model.RevisionInfo, error) {
	var info model.RevisionInfo
	err := r.db.QueryRowContext(ctx,
		"SELECT revision_id, generated_at FROM meta WHERE id = 1",
	).Scan(&info.RevisionID, &info.GeneratedAt)
	if err != nil {
		return model.RevisionInfo{}, apperr.Database(err)
	}
	return info, nil
}

// Meta returns the schema version alongside the revision info, for
// datastore snapshots.
func (r *RevisionRepo) Meta(ctx context.Context) (schemaVersion int, info model.RevisionInfo, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT schema_version, revision_id, generated_at FROM meta WHERE id = 1",
	).Scan(&schemaVersion, &info.RevisionID, &info.GeneratedAt)
	if err != nil {
		return 0, model.RevisionInfo{}, apperr.Database(err)
	}
	return schemaVersion, info, nil
}

// bumpRevision advances the counter by 1 and refreshes generated_at. It
// must run inside the same transaction as the mutation it accounts for,
// so a write and its revision bump commit or roll back together.
func bumpRevision(ctx context.Context, q querier) error {
	_, err := q.ExecContext(ctx,
		"UPDATE meta SET revision_id = revision_id + 1, generated_at = ? WHERE id = 1", now())
	if err != nil {
		return apperr.Database(err)
	}
	return nil
}
