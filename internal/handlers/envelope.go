package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/storage"
)

// Every response carries the store's revision at time of response so
// clients can detect concurrent changes.

type successEnvelope struct {
	Success    bool  `json:"success"`
	Data       any   `json:"data"`
	RevisionID int64 `json:"revisionId"`
}

type errorEnvelope struct {
	Success    bool         `json:"success"`
	Error      errorDetails `json:"error"`
	RevisionID int64        `json:"revisionId"`
}

type errorDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// WriteSuccess writes a 200 success envelope.
func WriteSuccess(w http.ResponseWriter, data any, revisionID int64) {
	writeJSON(w, http.StatusOK, successEnvelope{
		Success:    true,
		Data:       data,
		RevisionID: revisionID,
	})
}

// WriteError writes an error envelope. Version mismatches carry the
// authoritative current version in the details object.
func WriteError(w http.ResponseWriter, err error, revisionID int64) {
	appErr := apperr.From(err)

	var details any
	if appErr.Code == apperr.CodeVersionMismatch {
		details = map[string]int64{"currentVersion": appErr.CurrentVersion}
	}

	writeJSON(w, apperr.HTTPStatus(appErr.Code), errorEnvelope{
		Success: false,
		Error: errorDetails{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
		RevisionID: revisionID,
	})
}

// currentRevision reads the revision counter for a response envelope. A
// failed read degrades to 0 rather than failing the whole request.
func currentRevision(ctx context.Context, revisions storage.RevisionStore) int64 {
	id, err := revisions.RevisionID(ctx)
	if err != nil {
		slog.WarnContext(ctx, "reading revision for response failed", "error", err)
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
