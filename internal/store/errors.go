package store

import "errors"

// Sentinel errors returned by the local persistence layer. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by [Storage.Get] when nothing is stored
	// under the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrCorruptedCollection is returned when a persisted collection or the
	// pending-change queue cannot be decoded. The stored blob is left as is.
	ErrCorruptedCollection = errors.New("stored collection is corrupted")

	// ErrRecordNotFound is returned when a record with the requested id does
	// not exist in the local collection.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrUnsupportedDSN is returned when the configured DSN does not select
	// any known storage backend.
	ErrUnsupportedDSN = errors.New("unsupported storage dsn")
)

// Low-level database operation errors. These are returned (or wrapped) by the
// SQLite backend when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing an INSERT or DELETE
	// statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan kv row")
)
