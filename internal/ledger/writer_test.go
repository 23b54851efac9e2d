package ledger_test

import (
	"civicconnect/backend/internal/config"
	"civicconnect/backend/internal/ledger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/storage"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore lets a test fail individual store calls.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Read(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) Write(ctx context.Context, key, raw string) error {
	args := m.Called(ctx, key, raw)
	return args.Error(0)
}

func (m *MockStore) Clear(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newComplaint(id string) models.Complaint {
	return models.Complaint{
		ID:          id,
		Name:        "A",
		Address:     "X",
		Phone:       "123",
		Category:    "pothole",
		Description: "d",
		Date:        "11/14/2023",
		Status:      models.StatusPending,
	}
}

func readBoth(t *testing.T, w *ledger.Writer) ([]models.Complaint, []models.Complaint) {
	t.Helper()
	ctx := context.Background()
	citizen, err := w.Read(ctx, config.CitizenLedgerKey)
	require.NoError(t, err)
	admin, err := w.Read(ctx, config.AdminLedgerKey)
	require.NoError(t, err)
	return citizen, admin
}

func TestWriter_AppendWritesBothLedgers(t *testing.T) {
	w := ledger.NewWriter(storage.NewMemoryStore())
	c := newComplaint("1700000000000")

	require.NoError(t, w.Append(context.Background(), c))

	citizen, admin := readBoth(t, w)
	require.Len(t, citizen, 1)
	require.Len(t, admin, 1)
	assert.Equal(t, c, citizen[0])
	assert.Equal(t, citizen[0], admin[0])
	assert.Equal(t, models.StatusPending, admin[0].Status)
}

func TestWriter_AppendKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	w := ledger.NewWriter(storage.NewMemoryStore())

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, w.Append(ctx, newComplaint(id)))
	}

	citizen, admin := readBoth(t, w)
	for _, records := range [][]models.Complaint{citizen, admin} {
		require.Len(t, records, 3)
		assert.Equal(t, "1", records[0].ID)
		assert.Equal(t, "3", records[2].ID)
	}
}

func TestWriter_AppendOverMalformedLedger(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Write(ctx, config.CitizenLedgerKey, "{not json"))
	w := ledger.NewWriter(store)

	require.NoError(t, w.Append(ctx, newComplaint("1")))

	citizen, admin := readBoth(t, w)
	assert.Len(t, citizen, 1)
	assert.Len(t, admin, 1)
}

func TestWriter_AppendKeepsGoodRecordsBesideACorruptOne(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	hand := `[{"id":"1","status":"pending"},{"id":"2","status":"pending","image":{}},{"id":"4","status":"resolved"}]`
	for _, key := range config.LedgerKeys {
		require.NoError(t, store.Write(ctx, key, hand))
	}
	w := ledger.NewWriter(store)

	require.NoError(t, w.Append(ctx, newComplaint("3")))

	citizen, admin := readBoth(t, w)
	for _, records := range [][]models.Complaint{citizen, admin} {
		ids := make([]string, 0, len(records))
		for _, c := range records {
			ids = append(ids, c.ID)
		}
		assert.Equal(t, []string{"1", "4", "3"}, ids)
	}
}

func TestWriter_UpdateStatusChangesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	w := ledger.NewWriter(storage.NewMemoryStore())
	target := newComplaint("2")
	target.Image = strPtr("pothole.png")
	require.NoError(t, w.Append(ctx, newComplaint("1")))
	require.NoError(t, w.Append(ctx, target))

	written, err := w.UpdateStatus(ctx, "2", models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	citizen, admin := readBoth(t, w)
	for _, records := range [][]models.Complaint{citizen, admin} {
		require.Len(t, records, 2)
		assert.Equal(t, newComplaint("1"), records[0], "other records untouched")

		want := target
		want.Status = models.StatusResolved
		assert.Equal(t, want, records[1])
	}
}

func TestWriter_UpdateStatusUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := ledger.NewWriter(store)
	require.NoError(t, w.Append(ctx, newComplaint("1")))
	beforeCitizen, _, _ := store.Read(ctx, config.CitizenLedgerKey)
	beforeAdmin, _, _ := store.Read(ctx, config.AdminLedgerKey)

	written, err := w.UpdateStatus(ctx, "missing", models.StatusResolved)

	require.NoError(t, err)
	assert.Zero(t, written)
	afterCitizen, _, _ := store.Read(ctx, config.CitizenLedgerKey)
	afterAdmin, _, _ := store.Read(ctx, config.AdminLedgerKey)
	assert.Equal(t, beforeCitizen, afterCitizen)
	assert.Equal(t, beforeAdmin, afterAdmin)
}

func TestWriter_UpdateStatusLeavesMalformedLedgerAlone(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := ledger.NewWriter(store)
	require.NoError(t, w.Append(ctx, newComplaint("1")))
	require.NoError(t, store.Write(ctx, config.CitizenLedgerKey, "garbage"))

	written, err := w.UpdateStatus(ctx, "1", models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	raw, _, _ := store.Read(ctx, config.CitizenLedgerKey)
	assert.Equal(t, "garbage", raw)
	_, admin := readBoth(t, w)
	assert.Equal(t, models.StatusInProgress, admin[0].Status)
}

func TestWriter_UpdateStatusToleratesDivergedLedgers(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := ledger.NewWriter(store)
	require.NoError(t, w.Append(ctx, newComplaint("1")))
	// Only the admin ledger knows about "2".
	require.NoError(t, store.Write(ctx, config.AdminLedgerKey,
		ledger.EncodeLedger([]models.Complaint{newComplaint("1"), newComplaint("2")})))

	written, err := w.UpdateStatus(ctx, "2", models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	citizen, admin := readBoth(t, w)
	assert.Len(t, citizen, 1, "no record is created in the citizen ledger")
	assert.Equal(t, models.StatusResolved, admin[1].Status)
}

func TestWriter_UpdateStatusIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := ledger.NewWriter(store)
	require.NoError(t, w.Append(ctx, newComplaint("1")))

	_, err := w.UpdateStatus(ctx, "1", models.StatusResolved)
	require.NoError(t, err)
	onceCitizen, _, _ := store.Read(ctx, config.CitizenLedgerKey)
	onceAdmin, _, _ := store.Read(ctx, config.AdminLedgerKey)

	written, err := w.UpdateStatus(ctx, "1", models.StatusResolved)
	require.NoError(t, err)
	assert.Zero(t, written, "nothing left to change")

	twiceCitizen, _, _ := store.Read(ctx, config.CitizenLedgerKey)
	twiceAdmin, _, _ := store.Read(ctx, config.AdminLedgerKey)
	assert.Equal(t, onceCitizen, twiceCitizen)
	assert.Equal(t, onceAdmin, twiceAdmin)
}

func TestWriter_AnyStatusReachableFromAny(t *testing.T) {
	ctx := context.Background()
	w := ledger.NewWriter(storage.NewMemoryStore())
	require.NoError(t, w.Append(ctx, newComplaint("1")))

	for _, s := range []models.Status{models.StatusResolved, models.StatusPending, models.StatusInProgress, models.StatusPending} {
		_, err := w.UpdateStatus(ctx, "1", s)
		require.NoError(t, err)
		citizen, admin := readBoth(t, w)
		assert.Equal(t, s, citizen[0].Status)
		assert.Equal(t, s, admin[0].Status)
	}
}

func TestWriter_SecondWriteFailureLeavesDivergence(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	boom := errors.New("connection reset")
	store.On("Read", ctx, config.CitizenLedgerKey).Return("", false, nil)
	store.On("Read", ctx, config.AdminLedgerKey).Return("", false, nil)
	store.On("Write", ctx, config.CitizenLedgerKey, mock.AnythingOfType("string")).Return(nil)
	store.On("Write", ctx, config.AdminLedgerKey, mock.AnythingOfType("string")).Return(boom)

	w := ledger.NewWriter(store)
	err := w.Append(ctx, newComplaint("1"))

	assert.ErrorIs(t, err, boom)
	store.AssertCalled(t, "Write", ctx, config.CitizenLedgerKey, mock.AnythingOfType("string"))
	store.AssertExpectations(t)
}

func TestWriter_ReadFailureStopsFanOut(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	boom := errors.New("timeout")
	store.On("Read", ctx, config.CitizenLedgerKey).Return("", false, boom)

	w := ledger.NewWriter(store)
	_, err := w.UpdateStatus(ctx, "1", models.StatusResolved)

	assert.ErrorIs(t, err, boom)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Read", ctx, config.AdminLedgerKey)
}

func TestWriter_ThirdLedgerNeedsNoCallSiteChange(t *testing.T) {
	ctx := context.Background()
	keys := []string{config.CitizenLedgerKey, config.AdminLedgerKey, "audit_complaints"}
	w := ledger.NewWriter(storage.NewMemoryStore(), keys...)

	require.NoError(t, w.Append(ctx, newComplaint("1")))
	written, err := w.UpdateStatus(ctx, "1", models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	audit, err := w.Read(ctx, "audit_complaints")
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, models.StatusInProgress, audit[0].Status)
	assert.Equal(t, keys, w.Keys())
}

func TestWriter_ClearRemovesEveryLedger(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	w := ledger.NewWriter(store)
	require.NoError(t, w.Append(ctx, newComplaint("1")))

	require.NoError(t, w.Clear(ctx))

	for _, key := range config.LedgerKeys {
		_, found, err := store.Read(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
	report, err := w.Divergence(ctx)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
}

func TestWriter_ClearStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Clear", ctx, config.CitizenLedgerKey).Return(errors.New("connection reset"))
	w := ledger.NewWriter(store)

	err := w.Clear(ctx)

	assert.Error(t, err)
	store.AssertNotCalled(t, "Clear", ctx, config.AdminLedgerKey)
}
