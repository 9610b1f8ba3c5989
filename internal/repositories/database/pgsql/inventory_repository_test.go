package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureItemsBatchInsertsMissingRowsOnly(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	batch := ensureItemsBatch("co-1", []string{"p-b", "p-a", "p-b"}, now)

	require.Equal(t, 2, batch.Len())
	for i, want := range []string{"p-a", "p-b"} {
		q := batch.QueuedQueries[i]
		assert.Contains(t, q.SQL, "ON CONFLICT (company_id, product_id) DO NOTHING")
		assert.NotContains(t, q.SQL, "DO UPDATE")
		require.Len(t, q.Arguments, 4)
		assert.NotEmpty(t, q.Arguments[0])
		assert.Equal(t, "co-1", q.Arguments[1])
		assert.Equal(t, want, q.Arguments[2])
		assert.Equal(t, now, q.Arguments[3])
	}
	assert.NotEqual(t, batch.QueuedQueries[0].Arguments[0], batch.QueuedQueries[1].Arguments[0])
}
