package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"climatelens/internal/common"
	"climatelens/internal/interfaces"
	"climatelens/internal/models"
)

// ReportStorage implements the ReportStorage interface for SQLite
type ReportStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewReportStorage creates a new ReportStorage instance
func NewReportStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

// SaveChunks upserts report chunks, embedding included when present.
// Chunks arriving without an ID are assigned a generated one.
func (r *ReportStorage) SaveChunks(ctx context.Context, chunks []*models.ReportChunk) error {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO report_chunks (id, section, paragraph, text, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			section = excluded.section,
			paragraph = excluded.paragraph,
			text = excluded.text,
			embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if c.ID == "" {
			c.ID = common.NewChunkID()
		}
		var blob []byte
		if len(c.Embedding) > 0 {
			blob = encodeEmbedding(c.Embedding)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Section, c.Paragraph, c.Text, blob); err != nil {
			return fmt.Errorf("failed to save chunk %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// VectorSearch ranks up to candidatePool embedded chunks by cosine
// similarity against the query embedding and returns the top k. Chunks
// without an embedding are ignored; ties keep insertion order.
func (r *ReportStorage) VectorSearch(ctx context.Context, embedding []float32, candidatePool, k int) ([]*models.ReportChunk, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	if candidatePool <= 0 {
		candidatePool = 100
	}

	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, section, paragraph, text, embedding
		FROM report_chunks
		WHERE embedding IS NOT NULL
		ORDER BY rowid ASC
		LIMIT ?`, candidatePool)
	if err != nil {
		return nil, fmt.Errorf("candidate query failed: %w", err)
	}
	defer rows.Close()

	var candidates []*models.ReportChunk
	for rows.Next() {
		c := &models.ReportChunk{}
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Section, &c.Paragraph, &c.Text, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s has malformed embedding: %w", c.ID, err)
		}
		if len(vec) != len(embedding) {
			return nil, fmt.Errorf("chunk %s embedding dimension %d does not match query dimension %d",
				c.ID, len(vec), len(embedding))
		}
		c.Embedding = vec
		c.Score = cosineSimilarity(embedding, vec)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// KeywordSearch finds chunks matching the topic via full-text search
func (r *ReportStorage) KeywordSearch(ctx context.Context, topic string, k int) ([]*models.ReportChunk, error) {
	query := ftsQuery(topic)
	if query == "" {
		return nil, nil
	}

	rows, err := r.db.db.QueryContext(ctx, `
		SELECT c.id, c.section, c.paragraph, c.text
		FROM report_chunks_fts f
		JOIN report_chunks c ON c.rowid = f.rowid
		WHERE report_chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	defer rows.Close()

	var chunks []*models.ReportChunk
	for rows.Next() {
		c := &models.ReportChunk{}
		if err := rows.Scan(&c.ID, &c.Section, &c.Paragraph, &c.Text); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// ListMissingEmbeddings returns chunk IDs and text for rows without an
// embedding, oldest first, capped at limit
func (r *ReportStorage) ListMissingEmbeddings(ctx context.Context, limit int) ([]*models.ReportChunk, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, section, paragraph, text
		FROM report_chunks
		WHERE embedding IS NULL
		ORDER BY rowid ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("missing embeddings query failed: %w", err)
	}
	defer rows.Close()

	var chunks []*models.ReportChunk
	for rows.Next() {
		c := &models.ReportChunk{}
		if err := rows.Scan(&c.ID, &c.Section, &c.Paragraph, &c.Text); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// UpdateEmbedding stores the embedding for an existing chunk
func (r *ReportStorage) UpdateEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("embedding is empty")
	}
	result, err := r.db.db.ExecContext(ctx,
		`UPDATE report_chunks SET embedding = ? WHERE id = ?`,
		encodeEmbedding(embedding), chunkID)
	if err != nil {
		return fmt.Errorf("failed to update embedding for chunk %s: %w", chunkID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chunk not found: %s", chunkID)
	}
	return nil
}

// encodeEmbedding packs a float32 vector as little-endian bytes
func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeEmbedding unpacks a little-endian float32 vector
func decodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

// cosineSimilarity returns 0 for zero-magnitude vectors
func cosineSimilarity(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// ftsQuery quotes each term so user input cannot break the MATCH syntax
func ftsQuery(topic string) string {
	fields := strings.Fields(topic)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		quoted = append(quoted, `"`+f+`"`)
	}
	return strings.Join(quoted, " ")
}
