package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/account-closed/Ref39TopicAssistant/internal/model"
	"github.com/account-closed/Ref39TopicAssistant/internal/search"
	"github.com/account-closed/Ref39TopicAssistant/internal/service"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details *struct {
			CurrentVersion int64 `json:"currentVersion"`
		} `json:"details"`
	} `json:"error"`
	RevisionID int64 `json:"revisionId"`
}

func newTestRouter(t *testing.T, psk string) http.Handler {
	t.Helper()
	dir := t.TempDir()

	db, err := storage.New(filepath.Join(dir, "topics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(db))

	index, err := search.Open(filepath.Join(dir, "search.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	topicRepo := storage.NewTopicRepo(db)
	tagRepo := storage.NewTagRepo(db)

	return NewRouter(&Deps{
		Members:   storage.NewMemberRepo(db),
		Tags:      tagRepo,
		Topics:    topicRepo,
		Revisions: storage.NewRevisionRepo(db),
		Index:     index,
		Syncer:    service.NewSyncer(topicRepo, tagRepo, index),
		APIPSK:    psk,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestTopicLifecycle(t *testing.T) {
	router := newTestRouter(t, "")

	// Create a member to assign responsibility to.
	status, env := doJSON(t, router, http.MethodPost, "/api/members", map[string]any{
		"displayName": "Alice",
	})
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.Success)
	var member model.Member
	decodeData(t, env, &member)
	assert.EqualValues(t, 1, env.RevisionID)

	// Create a tag with search keywords.
	status, env = doJSON(t, router, http.MethodPost, "/api/tags", map[string]any{
		"name":           "Security",
		"searchKeywords": []string{"iso27001"},
		"createdBy":      member.ID,
	})
	require.Equal(t, http.StatusOK, status)
	var tag model.Tag
	decodeData(t, env, &tag)
	assert.EqualValues(t, 2, env.RevisionID)

	// Create a topic carrying the tag.
	status, env = doJSON(t, router, http.MethodPost, "/api/topics", map[string]any{
		"header": "Password Reset Procedure",
		"tags":   []string{tag.ID},
		"raci":   map[string]any{"r1MemberId": member.ID},
	})
	require.Equal(t, http.StatusOK, status)
	var topic model.Topic
	decodeData(t, env, &topic)
	assert.EqualValues(t, 1, topic.Version)
	assert.EqualValues(t, 3, env.RevisionID)

	// The topic is searchable by header and by tag keyword.
	for _, q := range []string{"password", "iso27001"} {
		status, env = doJSON(t, router, http.MethodGet, "/api/search?q="+q, nil)
		require.Equal(t, http.StatusOK, status)
		var res struct {
			Results []struct {
				Topic model.Topic `json:"topic"`
				Score float64     `json:"score"`
			} `json:"results"`
			Total int `json:"total"`
		}
		decodeData(t, env, &res)
		require.Equal(t, 1, res.Total, "query %q", q)
		assert.Equal(t, topic.ID, res.Results[0].Topic.ID)
		assert.Greater(t, res.Results[0].Score, 0.0)
	}

	// Update with the correct expected version succeeds.
	status, env = doJSON(t, router, http.MethodPut, "/api/topics/"+topic.ID, map[string]any{
		"notes":           "ask IT before resetting admin accounts",
		"expectedVersion": 1,
	})
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &topic)
	assert.EqualValues(t, 2, topic.Version)
	assert.EqualValues(t, 4, env.RevisionID)

	// A stale expected version is rejected with the current version.
	status, env = doJSON(t, router, http.MethodPut, "/api/topics/"+topic.ID, map[string]any{
		"notes":           "lost update",
		"expectedVersion": 1,
	})
	require.Equal(t, http.StatusConflict, status)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VERSION_MISMATCH", env.Error.Code)
	require.NotNil(t, env.Error.Details)
	assert.EqualValues(t, 2, env.Error.Details.CurrentVersion)
	assert.EqualValues(t, 4, env.RevisionID)

	// Delete removes the record and its search document.
	status, env = doJSON(t, router, http.MethodDelete, "/api/topics/"+topic.ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 5, env.RevisionID)

	status, env = doJSON(t, router, http.MethodGet, "/api/search?q=password", nil)
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &res)
	assert.Zero(t, res.Total)

	status, _ = doJSON(t, router, http.MethodGet, "/api/topics/"+topic.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBatchUpdateEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	_, env := doJSON(t, router, http.MethodPost, "/api/members", map[string]any{"displayName": "Bob"})
	var member model.Member
	decodeData(t, env, &member)

	var ids []string
	for _, header := range []string{"Alpha", "Beta"} {
		_, env := doJSON(t, router, http.MethodPost, "/api/topics", map[string]any{
			"header": header,
			"raci":   map[string]any{"r1MemberId": member.ID},
		})
		var topic model.Topic
		decodeData(t, env, &topic)
		ids = append(ids, topic.ID)
	}

	status, env := doJSON(t, router, http.MethodPut, "/api/topics/batch", map[string]any{
		"updates": []map[string]any{
			{"topicId": ids[0], "changes": map[string]any{"priority": 1}},
			{"topicId": ids[1], "changes": map[string]any{"priority": 2}},
		},
	})
	require.Equal(t, http.StatusOK, status)
	var topics []model.Topic
	decodeData(t, env, &topics)
	require.Len(t, topics, 2)
	// One member + two topics + one batch = four logical writes.
	assert.EqualValues(t, 4, env.RevisionID)

	// An empty batch is invalid.
	status, env = doJSON(t, router, http.MethodPut, "/api/topics/batch", map[string]any{
		"updates": []map[string]any{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	// A failed batch leaves the revision untouched.
	status, env = doJSON(t, router, http.MethodPut, "/api/topics/batch", map[string]any{
		"updates": []map[string]any{
			{"topicId": ids[0], "changes": map[string]any{"priority": 9}},
			{"topicId": "missing", "changes": map[string]any{}},
		},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.EqualValues(t, 4, env.RevisionID)
}

func TestTagDeleteRemovesDerivedSearchFields(t *testing.T) {
	router := newTestRouter(t, "")

	_, env := doJSON(t, router, http.MethodPost, "/api/members", map[string]any{"displayName": "Carol"})
	var member model.Member
	decodeData(t, env, &member)

	_, env = doJSON(t, router, http.MethodPost, "/api/tags", map[string]any{
		"name":           "Datenschutz",
		"searchKeywords": []string{"dsgvo"},
		"createdBy":      member.ID,
	})
	var tag model.Tag
	decodeData(t, env, &tag)

	_, env = doJSON(t, router, http.MethodPost, "/api/topics", map[string]any{
		"header": "Customer Records",
		"tags":   []string{tag.ID},
		"raci":   map[string]any{"r1MemberId": member.ID},
	})

	status, env := doJSON(t, router, http.MethodGet, "/api/search?q=dsgvo", nil)
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Total int `json:"total"`
	}
	decodeData(t, env, &res)
	require.Equal(t, 1, res.Total)

	// Deleting the tag rebuilds the index without its keywords.
	status, _ = doJSON(t, router, http.MethodDelete, "/api/tags/"+tag.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, router, http.MethodGet, "/api/search?q=dsgvo", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &res)
	assert.Zero(t, res.Total)

	// The topic itself is still searchable by its own fields.
	status, env = doJSON(t, router, http.MethodGet, "/api/search?q=customer", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &res)
	assert.Equal(t, 1, res.Total)
}

func TestDatastoreSnapshot(t *testing.T) {
	router := newTestRouter(t, "")

	status, env := doJSON(t, router, http.MethodGet, "/api/datastore", nil)
	require.Equal(t, http.StatusOK, status)
	var ds model.Datastore
	decodeData(t, env, &ds)
	assert.Equal(t, 1, ds.SchemaVersion)
	assert.Zero(t, ds.RevisionID)
	assert.Empty(t, ds.Members)
	assert.Empty(t, ds.Topics)

	// Empty collections serialize as [] so the snapshot shape is stable.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &raw))
	for _, key := range []string{"members", "topics", "tags"} {
		require.Contains(t, raw, key)
		assert.JSONEq(t, "[]", string(raw[key]), "key %s", key)
	}

	_, memberEnv := doJSON(t, router, http.MethodPost, "/api/members", map[string]any{"displayName": "Dana"})
	var member model.Member
	decodeData(t, memberEnv, &member)
	_, _ = doJSON(t, router, http.MethodPost, "/api/topics", map[string]any{
		"header": "Inventory",
		"raci":   map[string]any{"r1MemberId": member.ID},
	})

	status, env = doJSON(t, router, http.MethodGet, "/api/datastore", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &ds)
	assert.EqualValues(t, 2, ds.RevisionID)
	assert.Len(t, ds.Members, 1)
	assert.Len(t, ds.Topics, 1)
	assert.Equal(t, ds.RevisionID, env.RevisionID)

	status, env = doJSON(t, router, http.MethodGet, "/api/datastore/revision", nil)
	require.Equal(t, http.StatusOK, status)
	var info model.RevisionInfo
	decodeData(t, env, &info)
	assert.EqualValues(t, 2, info.RevisionID)
	assert.NotEmpty(t, info.GeneratedAt)
}

func TestRouterAuth(t *testing.T) {
	router := newTestRouter(t, "topsecret")

	// API routes demand the key.
	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	req.Header.Set(APIKeyHeader, "topsecret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t, "")

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode string
	}{
		{
			name:     "member without display name",
			method:   http.MethodPost,
			path:     "/api/members",
			body:     map[string]any{"email": "x@example.com"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "tag without creator",
			method:   http.MethodPost,
			path:     "/api/tags",
			body:     map[string]any{"name": "Orphan"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "topic without responsible member",
			method:   http.MethodPost,
			path:     "/api/topics",
			body:     map[string]any{"header": "Unowned"},
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "topic with unknown size",
			method:   http.MethodPost,
			path:     "/api/topics",
			body:     map[string]any{"header": "Sized", "raci": map[string]any{"r1MemberId": "m1"}, "size": "GIGANTIC"},
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestMalformedJSONBody(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/members", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestSearchLimitClamping(t *testing.T) {
	router := newTestRouter(t, "")

	status, env := doJSON(t, router, http.MethodGet, "/api/search?q=x&limit=9999", nil)
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	decodeData(t, env, &res)
	assert.Equal(t, 100, res.Limit)

	status, env = doJSON(t, router, http.MethodGet, "/api/search?q=x&limit=-5&offset=-2", nil)
	require.Equal(t, http.StatusOK, status)
	decodeData(t, env, &res)
	assert.Equal(t, 20, res.Limit)
	assert.Zero(t, res.Offset)
}
