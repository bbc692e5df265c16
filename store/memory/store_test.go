package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/store"
)

func seeded(n int) *Store {
	s := New()
	for i := range n {
		s.Seed(recordpipe.SourceRecord{
			Key:       fmt.Sprintf("key-%02d", i),
			ExpiresAt: int64(i),
		})
	}
	return s
}

func TestStore_Bounds(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		_, _, err := New().Bounds(context.Background())
		assert.ErrorIs(t, err, store.ErrEmptySource)
	})

	t.Run("seeded store", func(t *testing.T) {
		lo, hi, err := seeded(10).Bounds(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), lo)
		assert.Equal(t, int64(10), hi)
	})
}

func TestStore_ScanSegment(t *testing.T) {
	s := seeded(10)

	var keys []string
	err := s.ScanSegment(context.Background(), recordpipe.Segment{Lo: 3, Hi: 6}, func(rec recordpipe.SourceRecord) error {
		keys = append(keys, rec.Key)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"key-02", "key-03", "key-04"}, keys)
}

func TestStore_ScanSegment_CallbackErrorStopsScan(t *testing.T) {
	s := seeded(10)
	scanErr := errors.New("downstream closed")

	calls := 0
	err := s.ScanSegment(context.Background(), recordpipe.Segment{Lo: 1, Hi: 11}, func(rec recordpipe.SourceRecord) error {
		calls++
		if calls == 2 {
			return scanErr
		}
		return nil
	})

	assert.ErrorIs(t, err, scanErr)
	assert.Equal(t, 2, calls)
}

func TestStore_MigrateRecord_Idempotent(t *testing.T) {
	s := New()
	rec := recordpipe.SourceRecord{Key: "key-a"}

	migrated, err := s.MigrateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, migrated)

	migrated, err = s.MigrateRecord(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, migrated, "second write must be a no-op")

	assert.Equal(t, 2, s.MigrateCalls())
	assert.Len(t, s.Migrated(), 1)
}

func TestStore_MigrateRecord_InjectedFailures(t *testing.T) {
	t.Run("permanent failure", func(t *testing.T) {
		s := New()
		failErr := errors.New("broken")
		s.FailKey("key-a", failErr)

		for range 3 {
			_, err := s.MigrateRecord(context.Background(), recordpipe.SourceRecord{Key: "key-a"})
			assert.ErrorIs(t, err, failErr)
		}
	})

	t.Run("bounded failure then success", func(t *testing.T) {
		s := New()
		failErr := errors.New("throttled")
		s.FailKeyTimes("key-a", failErr, 2)

		rec := recordpipe.SourceRecord{Key: "key-a"}
		_, err := s.MigrateRecord(context.Background(), rec)
		assert.ErrorIs(t, err, failErr)
		_, err = s.MigrateRecord(context.Background(), rec)
		assert.ErrorIs(t, err, failErr)

		migrated, err := s.MigrateRecord(context.Background(), rec)
		require.NoError(t, err)
		assert.True(t, migrated)
	})
}
