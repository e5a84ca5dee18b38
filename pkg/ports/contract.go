package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/seedbed/pkg/domain"
)

// RunRecordStoreContract runs a suite of tests to verify that a RecordStore
// implementation adheres to the defined interface contract.
func RunRecordStoreContract(t *testing.T, store RecordStore[string]) {
	ctx := context.Background()
	recordID := "contract-test-record-" + time.Now().Format("20060102150405")

	t.Run("Put and Get", func(t *testing.T) {
		value := map[string]any{"name": "Ada", "active": true}

		err := store.Put(ctx, recordID, value)
		require.NoError(t, err, "Put should not return error")

		loaded, err := store.Get(ctx, recordID)
		require.NoError(t, err, "Get should not return error")

		// JSON-backed stores may round-trip numerics; check shape, not types.
		m, ok := loaded.(map[string]any)
		require.True(t, ok, "loaded value should be a map")
		assert.Equal(t, "Ada", m["name"])
		assert.NotNil(t, m["active"])
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+recordID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Put Overwrites", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, recordID, map[string]any{"name": "Ada"}))
		require.NoError(t, store.Put(ctx, recordID, map[string]any{"name": "Grace"}))

		loaded, err := store.Get(ctx, recordID)
		require.NoError(t, err)
		m, ok := loaded.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Grace", m["name"])
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Put(ctx, recordID, map[string]any{"name": "Ada"})
		require.NoError(t, err)

		err = store.Delete(ctx, recordID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Get(ctx, recordID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound, "Get after Delete should return ErrRecordNotFound")

		// Deleting again must stay silent.
		assert.NoError(t, store.Delete(ctx, recordID))
	})

	t.Run("List", func(t *testing.T) {
		id1 := recordID + "-1"
		id2 := recordID + "-2"
		_ = store.Put(ctx, id1, map[string]any{"n": 1})
		_ = store.Put(ctx, id2, map[string]any{"n": 2})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
