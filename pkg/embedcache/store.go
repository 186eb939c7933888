// Package embedcache persists embedding vectors in SQLite so repeated runs over
// the same content only pay for new items.
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/EternisAI/persona/pkg/helpers"
)

// sqlite limits the number of bound parameters per statement
const lookupBatchSize = 500

type Store struct {
	db *sqlx.DB
}

type embeddingRow struct {
	Key    string `db:"key"`
	Model  string `db:"model"`
	Vector string `db:"vector"`
}

// NewStore opens (or creates) the cache database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to SQLite")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS embeddings (
			key TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			vector JSON NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create embeddings table")
	}

	return &Store{db: db}, nil
}

// Key identifies a text embedded by a given model.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached vectors for keys; missing keys are absent from the map.
func (s *Store) Lookup(ctx context.Context, keys []string) (map[string][]float64, error) {
	found := make(map[string][]float64, len(keys))
	for _, batch := range helpers.Batch(keys, lookupBatchSize) {
		query, args, err := sqlx.In(`SELECT key, model, vector FROM embeddings WHERE key IN (?)`, batch)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build lookup query")
		}

		var rows []embeddingRow
		if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
			return nil, errors.Wrap(err, "failed to query embeddings")
		}
		for _, row := range rows {
			var vector []float64
			if err := json.Unmarshal([]byte(row.Vector), &vector); err != nil {
				return nil, errors.Wrapf(err, "corrupt vector for key %s", row.Key)
			}
			found[row.Key] = vector
		}
	}
	return found, nil
}

// Save upserts vectors for texts embedded by model in a single transaction.
func (s *Store) Save(ctx context.Context, model string, texts []string, vectors [][]float64) error {
	if len(texts) != len(vectors) {
		return errors.Errorf("got %d texts and %d vectors", len(texts), len(vectors))
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	for i, text := range texts {
		encoded, err := json.Marshal(vectors[i])
		if err != nil {
			return errors.Wrap(err, "failed to encode vector")
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT OR REPLACE INTO embeddings (key, model, vector)
			VALUES (:key, :model, :vector)
		`, embeddingRow{Key: Key(model, text), Model: model, Vector: string(encoded)})
		if err != nil {
			return errors.Wrap(err, "failed to save embedding")
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit embeddings")
}

// Count returns how many vectors are cached.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM embeddings`)
	return n, err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
