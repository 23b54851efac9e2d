package ledger_test

import (
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/storage"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivergence_ConsistentAfterWriterOperations(t *testing.T) {
	ctx := context.Background()
	w := ledger.NewWriter(storage.NewMemoryStore())
	require.NoError(t, w.Append(ctx, newComplaint("1")))
	require.NoError(t, w.Append(ctx, newComplaint("2")))
	_, err := w.UpdateStatus(ctx, "2", models.StatusResolved)
	require.NoError(t, err)

	report, err := w.Divergence(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
}

func divergedStore(t *testing.T) *storage.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()

	stale := newComplaint("2")
	resolved := newComplaint("2")
	resolved.Status = models.StatusResolved

	require.NoError(t, store.Write(ctx, config.CitizenLedgerKey,
		ledger.EncodeLedger([]models.Complaint{newComplaint("1"), stale, newComplaint("3")})))
	require.NoError(t, store.Write(ctx, config.AdminLedgerKey,
		ledger.EncodeLedger([]models.Complaint{newComplaint("1"), resolved})))
	return store
}

func TestDivergence_ReportsMissingAndMismatched(t *testing.T) {
	w := ledger.NewWriter(divergedStore(t))

	report, err := w.Divergence(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Consistent())
	assert.Equal(t, map[string][]string{config.AdminLedgerKey: {"3"}}, report.Missing)
	assert.Equal(t, []string{"2"}, report.Mismatched)
}

func TestReconcile_AuthorityWins(t *testing.T) {
	ctx := context.Background()
	w := ledger.NewWriter(divergedStore(t))

	before, err := w.Reconcile(ctx, config.AdminLedgerKey)
	require.NoError(t, err)
	assert.False(t, before.Consistent())

	citizen, admin := readBoth(t, w)
	assert.Equal(t, citizen, admin)
	require.Len(t, admin, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{admin[0].ID, admin[1].ID, admin[2].ID})
	assert.Equal(t, models.StatusResolved, admin[1].Status)

	after, err := w.Divergence(ctx)
	require.NoError(t, err)
	assert.True(t, after.Consistent())
}

func TestReconcile_UnknownAuthority(t *testing.T) {
	w := ledger.NewWriter(storage.NewMemoryStore())
	_, err := w.Reconcile(context.Background(), "nope")
	assert.Error(t, err)
}
