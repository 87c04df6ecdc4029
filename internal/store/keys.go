package store

import "github.com/MKhiriev/go-finance-keeper/models"

// Well-known storage keys. Collections are stored under their own name
// (see [models.Collection]).
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeySyncQueue  = "sync_queue"
	KeyLastSyncAt = "last_sync_at"
)

// CollectionKey returns the storage key of a collection blob.
func CollectionKey(c models.Collection) string {
	return string(c)
}
