package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-entitlement/generic"
	"github.com/warp/leave-entitlement/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(id, employee string, createdAt time.Time) sqlite.CalculationRecord {
	return sqlite.CalculationRecord{
		ID:                id,
		EmployeeNumber:    employee,
		Region:            "england-and-wales",
		LeaveStart:        generic.NewTimePoint(2025, time.January, 1),
		LeaveEnd:          generic.NewTimePoint(2025, time.December, 31),
		TotalHours:        "247.50",
		HolidaysAvailable: true,
		InputJSON:         `{"employee_number":"` + employee + `"}`,
		ResultJSON:        `{"total":247.5}`,
		Summary:           "Employee Number: " + employee,
		CreatedAt:         createdAt,
	}
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveCalculation(ctx, record("calc-1", "E1001", created)))

	got, err := store.GetCalculation(ctx, "calc-1")
	require.NoError(t, err)

	assert.Equal(t, "E1001", got.EmployeeNumber)
	assert.Equal(t, "2025-01-01", got.LeaveStart.String())
	assert.Equal(t, "2025-12-31", got.LeaveEnd.String())
	assert.Equal(t, "247.50", got.TotalHours)
	assert.True(t, got.HolidaysAvailable)
	assert.Equal(t, "Employee Number: E1001", got.Summary)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestStore_GetMissingIsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetCalculation(context.Background(), "nope")
	assert.ErrorIs(t, err, generic.ErrNotFound)
	assert.True(t, generic.IsNotFound(err))
}

func TestStore_CorruptCreatedAtIsAnError(t *testing.T) {
	// GIVEN: A row whose created_at was rewritten outside the store
	// THEN: Reads fail naming the column instead of returning a zero time
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	require.NoError(t, store.SaveCalculation(ctx, record("calc-1", "E1001", time.Now())))

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE calculations SET created_at = 'last tuesday' WHERE id = 'calc-1'`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	_, err = store.GetCalculation(ctx, "calc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `corrupt created_at "last tuesday"`)

	_, err = store.ListCalculations(ctx, "", 10)
	assert.Error(t, err)
}

func TestStore_DuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCalculation(ctx, record("calc-1", "E1001", time.Now())))
	assert.Error(t, store.SaveCalculation(ctx, record("calc-1", "E1001", time.Now())))
}

func TestStore_ListNewestFirstAndFiltered(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveCalculation(ctx, record(fmt.Sprintf("a-%d", i), "E1001", base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, store.SaveCalculation(ctx, record("b-0", "E2002", base)))

	all, err := store.ListCalculations(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	mine, err := store.ListCalculations(ctx, "E1001", 0)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "a-2", mine[0].ID)
	assert.Equal(t, "a-0", mine[2].ID)

	limited, err := store.ListCalculations(ctx, "E1001", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
