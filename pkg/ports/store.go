package ports

import "context"

// RecordStore defines the interface for persisting test records in an
// external system. Adapters back the reference creators, retrievers, and
// cleaners used by examples and the CLI demo.
type RecordStore[ID comparable] interface {
	// Put persists a record value under the given ID, overwriting any
	// previous value.
	Put(ctx context.Context, id ID, value any) error

	// Get retrieves the current value for the given ID.
	// Returns domain.ErrRecordNotFound if the record does not exist.
	Get(ctx context.Context, id ID) (any, error)

	// Delete removes the record for the given ID. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, id ID) error

	// List returns the IDs of all stored records.
	List(ctx context.Context) ([]ID, error)
}
