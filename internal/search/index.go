// Package search maintains the full-text index over topics. The index is
// a derived store in its own SQLite file: every field in it can be
// rebuilt from the record store, so it may be discarded at any time
// without data loss.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/account-closed/Ref39TopicAssistant/internal/apperr"
	"github.com/account-closed/Ref39TopicAssistant/internal/model"
)

// Per-field relevance boosts, applied at query time through bm25 column
// weights.
const (
	boostHeader      = 10.0
	boostKeywords    = 8.5
	boostDescription = 7.0
	boostNotes       = 5.5
	boostTagNames    = 4.0
	boostTagKeywords = 2.5
)

// Result is a single search hit.
type Result struct {
	TopicID string
	Score   float64
}

// Index is the FTS5-backed topic index. Writes are serialized by a
// mutex; reads hit SQLite snapshots and never block writers.
type Index struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the search index at the given path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open search index %s: %w", path, err)
	}
	for _, p := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=30000`,
	} {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %s: %w", p, err)
		}
	}

	// Column order matters: bm25 weights are positional.
	_, err = db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS topics_fts USING fts5(
		topic_id UNINDEXED,
		header,
		description,
		notes,
		keywords,
		tag_names,
		tag_keywords,
		tokenize='unicode61'
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create search schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the index database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Rebuild discards all documents and re-indexes every topic. Used at
// startup and after tag definition changes, which affect derived fields
// of every topic referencing the tag.
func (ix *Index) Rebuild(ctx context.Context, topics []model.Topic, tags []model.Tag) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Search(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM topics_fts"); err != nil {
		return apperr.Search(err)
	}
	for _, topic := range topics {
		if err := insertDocument(ctx, tx, topic, tags); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return apperr.Search(err)
	}
	return nil
}

// IndexTopic upserts the document for one topic.
func (ix *Index) IndexTopic(ctx context.Context, topic model.Topic, tags []model.Tag) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Search(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM topics_fts WHERE topic_id = ?", topic.ID); err != nil {
		return apperr.Search(err)
	}
	if err := insertDocument(ctx, tx, topic, tags); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Search(err)
	}
	return nil
}

// RemoveTopic deletes the document for the given topic identity.
// Removing an unindexed topic is not an error.
func (ix *Index) RemoveTopic(ctx context.Context, topicID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, err := ix.db.ExecContext(ctx, "DELETE FROM topics_fts WHERE topic_id = ?", topicID); err != nil {
		return apperr.Search(err)
	}
	return nil
}

// Search ranks topics against the query. A match in any field scores;
// matches in several fields accumulate, weighted by the field boosts. An
// empty or whitespace-only query returns no results.
func (ix *Index) Search(ctx context.Context, query string, limit, offset int) ([]Result, error) {
	match := matchQuery(query)
	if match == "" {
		return []Result{}, nil
	}

	// bm25 returns lower-is-better; negate so higher score means more
	// relevant. Weight order follows the column declaration order.
	rows, err := ix.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT topic_id, -bm25(topics_fts, 0, %g, %g, %g, %g, %g, %g) AS score
		 FROM topics_fts
		 WHERE topics_fts MATCH ?
		 ORDER BY score DESC
		 LIMIT ? OFFSET ?`,
		boostHeader, boostDescription, boostNotes, boostKeywords, boostTagNames, boostTagKeywords),
		match, limit, offset)
	if err != nil {
		return nil, apperr.Search(err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.TopicID, &r.Score); err != nil {
			return nil, apperr.Search(err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Search(err)
	}
	return results, nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, topic model.Topic, tags []model.Tag) error {
	doc := buildDocument(topic, tags)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO topics_fts (topic_id, header, description, notes, keywords, tag_names, tag_keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.topicID, doc.header, doc.description, doc.notes, doc.keywords, doc.tagNames, doc.tagKeywords)
	if err != nil {
		return apperr.Search(err)
	}
	return nil
}

type document struct {
	topicID     string
	header      string
	description string
	notes       string
	keywords    string
	tagNames    string
	tagKeywords string
}

// buildDocument derives the indexed fields for a topic. Attached tags are
// resolved by id or by name, since clients use both interchangeably.
func buildDocument(topic model.Topic, tags []model.Tag) document {
	attached := make(map[string]bool, len(topic.Tags))
	for _, ref := range topic.Tags {
		attached[ref] = true
	}

	var tagNames, tagKeywords []string
	for _, tag := range tags {
		if attached[tag.ID] || attached[tag.Name] {
			tagNames = append(tagNames, tag.Name)
			tagKeywords = append(tagKeywords, tag.SearchKeywords...)
		}
	}

	return document{
		topicID:     topic.ID,
		header:      topic.Header,
		description: topic.Description,
		notes:       topic.Notes,
		keywords:    strings.Join(topic.SearchKeywords, " "),
		tagNames:    strings.Join(tagNames, " "),
		tagKeywords: strings.Join(tagKeywords, " "),
	}
}

// matchQuery converts free text into an FTS5 MATCH expression. Each token
// is double-quoted so FTS5 operators in user input read as literals, and
// tokens are OR-joined so any field hit scores.
func matchQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"`)
	}
	return strings.Join(terms, " OR ")
}
