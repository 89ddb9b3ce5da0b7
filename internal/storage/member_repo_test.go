package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

func TestMemberCreateGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{
		DisplayName: "Alice Example",
		Email:       "alice@example.com",
		Tags:        []string{"ops"},
		Color:       "#ff0000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.EqualValues(t, 1, created.Version)
	assert.True(t, created.Active)
	assert.NotEmpty(t, created.UpdatedAt)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.EqualValues(t, 1, currentRevision(t, db))
}

func TestMemberGetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
}

func TestMemberUpdateMergesAndBumpsVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{
		DisplayName: "Bob",
		Email:       "bob@example.com",
	})
	require.NoError(t, err)

	newName := "Robert"
	updated, err := repo.Update(ctx, created.ID, model.UpdateMemberRequest{
		DisplayName: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.DisplayName)
	// Untouched fields keep their stored values.
	assert.Equal(t, "bob@example.com", updated.Email)
	assert.EqualValues(t, 2, updated.Version)

	assert.EqualValues(t, 2, currentRevision(t, db))
}

func TestMemberUpdateVersionMismatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{DisplayName: "Carol"})
	require.NoError(t, err)

	name := "Caroline"
	stale := int64(99)
	_, err = repo.Update(ctx, created.ID, model.UpdateMemberRequest{
		DisplayName:     &name,
		ExpectedVersion: &stale,
	})
	require.Error(t, err)
	appErr := apperr.From(err)
	assert.Equal(t, apperr.CodeVersionMismatch, appErr.Code)
	assert.EqualValues(t, 1, appErr.CurrentVersion)

	// The failed write changes neither the record nor the revision.
	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.DisplayName)
	assert.EqualValues(t, 1, got.Version)
	assert.EqualValues(t, 1, currentRevision(t, db))
}

func TestMemberUpdateMatchingExpectedVersion(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{DisplayName: "Dave"})
	require.NoError(t, err)

	name := "David"
	expected := created.Version
	updated, err := repo.Update(ctx, created.ID, model.UpdateMemberRequest{
		DisplayName:     &name,
		ExpectedVersion: &expected,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Version)
}

func TestMemberDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{DisplayName: "Eve"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.EqualValues(t, 2, currentRevision(t, db))

	_, err = repo.Get(ctx, created.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)

	// Deleting again is NotFound and leaves the revision alone.
	err = repo.Delete(ctx, created.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.From(err).Code)
	assert.EqualValues(t, 2, currentRevision(t, db))
}

func TestMemberCorruptListColumn(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.CreateMemberRequest{
		DisplayName: "Frank",
		Tags:        []string{"ops"},
	})
	require.NoError(t, err)

	// Damaged stored JSON must surface as an error, not read back as an
	// empty list.
	_, err = db.Exec("UPDATE members SET tags = '{not json' WHERE id = ?", created.ID)
	require.NoError(t, err)

	_, err = repo.Get(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDatabase, apperr.From(err).Code)
}

func TestMemberList(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepo(db)
	ctx := context.Background()

	members, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	for _, name := range []string{"Zoe", "Anna", "Mike"} {
		_, err := repo.Create(ctx, model.CreateMemberRequest{DisplayName: name})
		require.NoError(t, err)
	}

	members, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "Anna", members[0].DisplayName)
	assert.Equal(t, "Mike", members[1].DisplayName)
	assert.Equal(t, "Zoe", members[2].DisplayName)
}
