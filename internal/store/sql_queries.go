package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const kvTable = "kv_store"

// buildGetQuery selects the payload stored under key.
func buildGetQuery(key string) (string, []any, error) {
	return sq.Select("payload").
		From(kvTable).
		Where(sq.Eq{"storage_key": key}).
		PlaceholderFormat(sq.Question).
		ToSql()
}

// buildUpsertQuery inserts or overwrites the payload stored under key.
func buildUpsertQuery(key string, value []byte, at time.Time) (string, []any, error) {
	return sq.Insert(kvTable).
		Columns("storage_key", "payload", "updated_at").
		Values(key, value, at).
		Suffix("ON CONFLICT(storage_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		PlaceholderFormat(sq.Question).
		ToSql()
}

// buildDeleteQuery removes key.
func buildDeleteQuery(key string) (string, []any, error) {
	return sq.Delete(kvTable).
		Where(sq.Eq{"storage_key": key}).
		PlaceholderFormat(sq.Question).
		ToSql()
}
