package record

import (
	"context"
	"errors"
	"time"
)

// Collection names. Each is an independently keyed set of records.
const (
	CollectionUsers         = "users"
	CollectionContent       = "content"
	CollectionPricing       = "pricing"
	CollectionOrders        = "orders"
	CollectionReviews       = "reviews"
	CollectionNotifications = "notifications"
)

// Shared field names every record carries.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	// ErrNotFound indicates the key is absent in the collection.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a conditional create lost to an
	// existing record with the same key.
	ErrAlreadyExists = errors.New("record already exists")
)

// indexFields maps a collection to the record field maintained as its
// secondary index key. Only orders carry one (owner phone lookup).
var indexFields = map[string]string{
	CollectionOrders: "phone",
}

// IndexField returns the secondary-index field for a collection, or "".
func IndexField(collection string) string {
	return indexFields[collection]
}

// Store is the schemaless key-value table abstraction behind every
// resource service. Implementations must stamp createdAt/updatedAt on
// create and refresh updatedAt on every mutation.
type Store interface {
	// Get returns the record at key, or ErrNotFound.
	Get(ctx context.Context, collection, key string) (Record, error)

	// Put writes the record at key. With failIfExists the write is an
	// atomic conditional create returning ErrAlreadyExists when the key
	// is present; otherwise it is an upsert that overwrites. The stored
	// record (with stamped timestamps) is returned.
	Put(ctx context.Context, collection, key string, rec Record, failIfExists bool) (Record, error)

	// Update applies a partial update built by BuildUpdate: exactly the
	// built fields plus updatedAt change, everything else is untouched.
	// The full updated record is returned; ErrNotFound when absent.
	Update(ctx context.Context, collection, key string, upd *Update) (Record, error)

	// Increment atomically adds delta to a numeric field (absent treated
	// as zero), refreshes updatedAt, and returns the updated record.
	Increment(ctx context.Context, collection, key, field string, delta int64) (Record, error)

	// Delete removes the record at key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, collection, key string) error

	// ScanAll returns every record in the collection with no ordering
	// guarantee. Callers filter and sort in memory.
	ScanAll(ctx context.Context, collection string) ([]Record, error)

	// QueryByIndex returns records whose secondary index field equals
	// indexKey, pre-sorted descending by createdAt.
	QueryByIndex(ctx context.Context, collection, indexKey string) ([]Record, error)
}

// timeNow is swapped in tests that need deterministic timestamps.
var timeNow = time.Now
