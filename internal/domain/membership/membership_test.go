package membership

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database"
	"foodgram/internal/pkg/testdb"
)

type pin struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"not null;uniqueIndex:idx_pin_user_recipe"`
	ItemID int64 `gorm:"not null;uniqueIndex:idx_pin_user_recipe"`
}

func newPins(t *testing.T) *Set[pin] {
	db := testdb.New(t, &pin{})
	return NewSet(db, "user_id", "item_id", func(owner, target int64) *pin {
		return &pin{UserID: owner, ItemID: target}
	})
}

func TestSet_AddRemoveCycle(t *testing.T) {
	ctx := context.Background()
	pins := newPins(t)

	require.NoError(t, pins.Add(ctx, 1, 10))
	assert.ErrorIs(t, pins.Add(ctx, 1, 10), ErrDuplicate)

	ok, err := pins.Contains(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, pins.Remove(ctx, 1, 10))
	assert.ErrorIs(t, pins.Remove(ctx, 1, 10), ErrNotFound)

	require.NoError(t, pins.Add(ctx, 1, 10))
}

func TestSet_OwnersAreIndependent(t *testing.T) {
	ctx := context.Background()
	pins := newPins(t)

	require.NoError(t, pins.Add(ctx, 1, 10))
	require.NoError(t, pins.Add(ctx, 2, 10))
	require.NoError(t, pins.Add(ctx, 1, 11))

	got, err := pins.ContainsAny(ctx, 1, []int64{10, 11, 12})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{10: true, 11: true}, got)

	got, err = pins.ContainsAny(ctx, 2, []int64{10, 11})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{10: true}, got)

	require.NoError(t, pins.DropTarget(ctx, 10))
	ok, err := pins.Contains(ctx, 2, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = pins.Contains(ctx, 1, 11)
	require.NoError(t, err)
	assert.True(t, ok)
}

// raceAdd runs callers concurrent adds of (5, 50), spreading them over sets,
// and returns how many succeeded and how many saw ErrDuplicate.
func raceAdd(t *testing.T, callers int, sets ...*Set[pin]) (ok, dupes int) {
	ctx := context.Background()
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		unexpected []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(set *Set[pin]) {
			defer wg.Done()
			err := set.Add(ctx, 5, 50)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicate):
				dupes++
			default:
				unexpected = append(unexpected, err)
			}
		}(sets[i%len(sets)])
	}
	wg.Wait()
	assert.Empty(t, unexpected)
	return ok, dupes
}

// The in-memory test database has a single connection, so these adds queue
// behind each other and the duplicates are found one at a time.
func TestSet_ConcurrentAddOnSharedConnection(t *testing.T) {
	pins := newPins(t)

	ok, dupes := raceAdd(t, 8, pins)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dupes)

	got, err := pins.ContainsAny(context.Background(), 5, []int64{50})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{50: true}, got)
}

// Two independent connections to one database file race at the unique index.
func TestSet_ConcurrentAddAcrossConnections(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "pins.db") + "?_pragma=busy_timeout(5000)"
	build := func(owner, target int64) *pin { return &pin{UserID: owner, ItemID: target} }

	var sets []*Set[pin]
	for i := 0; i < 2; i++ {
		db, err := database.Connect(dsn)
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqlDB.Close() })
		if i == 0 {
			require.NoError(t, db.AutoMigrate(&pin{}))
		}
		sets = append(sets, NewSet(db, "user_id", "item_id", build))
	}

	ok, dupes := raceAdd(t, 8, sets...)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, dupes)

	var rows int64
	require.NoError(t, sets[1].db.Model(&pin{}).Where("user_id = ? AND item_id = ?", 5, 50).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestSet_TargetQueryAsSubquery(t *testing.T) {
	ctx := context.Background()
	pins := newPins(t)
	require.NoError(t, pins.Add(ctx, 3, 30))
	require.NoError(t, pins.Add(ctx, 3, 31))
	require.NoError(t, pins.Add(ctx, 4, 32))

	var ids []int64
	err := pins.db.Model(&pin{}).
		Where("item_id IN (?)", pins.TargetQuery(ctx, 3)).
		Order("item_id").
		Pluck("item_id", &ids).Error
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 31}, ids)
}
