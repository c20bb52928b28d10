// Package store persists the application's state as one JSON document per
// key. The whole corpus is a single document; so are the activity log, the
// search history, sessions and settings. Callers never see the backing
// database, only the load/save contract.
package store

import "context"

// Persisted document keys.
const (
	KeyCorpusData    = "corpusData"
	KeyActivityLogs  = "activityLogs"
	KeySearchHistory = "searchHistory"
	KeyCurrentUser   = "corpusUser"
	KeyUserPrefix    = "corpusUser_"
	KeyPublicStats   = "publicStats"
	KeyAutoBackup    = "autoBackup"
	KeySearchLimit   = "searchLimit"
	KeyLastBackup    = "lastBackup"
)

// SchemaVersion is written alongside every document so a future format
// migration can tell old rows apart.
const SchemaVersion = 1

// Store is the single load/save contract over the document database.
type Store interface {
	// Get returns the raw JSON document for key, or model.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes the document for key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the document for key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Probe verifies the store is usable by writing and deleting a
	// throwaway key. Every persistence path honors it.
	Probe(ctx context.Context) error
}
