package seedbed

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/aretw0/seedbed/pkg/ports"
)

// StoreRetriever adapts a RecordStore into a Retriever that re-reads the
// record's live state on every assertion.
func StoreRetriever[ID comparable](store ports.RecordStore[ID]) ports.Retriever[ID] {
	return func(ctx context.Context, id ID) (any, error) {
		return store.Get(ctx, id)
	}
}

// StoreCleaner adapts a RecordStore into a Cleaner that deletes every record
// the session created, oldest first.
func StoreCleaner[ID comparable](store ports.RecordStore[ID]) ports.Cleaner[ID] {
	return func(ctx context.Context, records *orderedmap.OrderedMap[ID, any], rootID ID) error {
		for pair := records.Oldest(); pair != nil; pair = pair.Next() {
			if err := store.Delete(ctx, pair.Key); err != nil {
				return fmt.Errorf("delete record %v: %w", pair.Key, err)
			}
		}
		return nil
	}
}
