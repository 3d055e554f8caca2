package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
	"punchclock.service/internal/ports/repository"
)

func day(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
}

// contractTest runs the behaviour every Repository implementation must share.
func contractTest(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
	ctx := context.Background()

	t.Run("missing day returns nil", func(t *testing.T) {
		repo := newRepo(t)
		j, err := repo.FindByDate(ctx, day(9))
		require.NoError(t, err)
		assert.Nil(t, j)
	})

	t.Run("round trip through every punch", func(t *testing.T) {
		repo := newRepo(t)
		var j *model.DayJournal
		for _, h := range []int{8, 12, 13, 17} {
			next, _, err := core.RecordPunch(j, day(h), 528)
			require.NoError(t, err)
			require.NoError(t, repo.Upsert(ctx, next))

			stored, err := repo.FindByDate(ctx, day(23))
			require.NoError(t, err)
			require.NotNil(t, stored)
			assertSameJournal(t, next, stored)
			j = stored
		}
	})

	t.Run("second first punch conflicts", func(t *testing.T) {
		repo := newRepo(t)
		a, _, err := core.RecordPunch(nil, day(8), 528)
		require.NoError(t, err)
		b, _, err := core.RecordPunch(nil, day(8), 528)
		require.NoError(t, err)

		require.NoError(t, repo.Upsert(ctx, a))
		require.ErrorIs(t, repo.Upsert(ctx, b), repository.ErrVersionConflict)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		repo := newRepo(t)
		first, _, err := core.RecordPunch(nil, day(8), 528)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, first))

		// Two callers read version 1 and both punch
		a, _, err := core.RecordPunch(first, day(12), 528)
		require.NoError(t, err)
		b, _, err := core.RecordPunch(first, day(12), 528)
		require.NoError(t, err)

		require.NoError(t, repo.Upsert(ctx, a))
		require.ErrorIs(t, repo.Upsert(ctx, b), repository.ErrVersionConflict)

		stored, err := repo.FindByDate(ctx, day(0))
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		assert.Nil(t, stored.LunchIn)
	})

	t.Run("deliveries", func(t *testing.T) {
		repo := newRepo(t)
		d, err := repo.GetDelivery(ctx, day(8), model.ChannelExport)
		require.NoError(t, err)
		assert.Nil(t, d)

		require.NoError(t, repo.UpdateDelivery(ctx, day(8), model.ChannelExport, model.DeliveryPending, 2))
		d, err = repo.GetDelivery(ctx, day(20), model.ChannelExport)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, model.DeliveryPending, d.Status)
		assert.Equal(t, 2, d.RetryCount)
		assert.Equal(t, day(0), d.Date)

		require.NoError(t, repo.UpdateDelivery(ctx, day(8), model.ChannelExport, model.DeliveryCompleted, 0))
		d, err = repo.GetDelivery(ctx, day(8), model.ChannelExport)
		require.NoError(t, err)
		assert.Equal(t, model.DeliveryCompleted, d.Status)
		assert.Equal(t, 0, d.RetryCount)

		other, err := repo.GetDelivery(ctx, day(8), model.ChannelEmail)
		require.NoError(t, err)
		assert.Nil(t, other)
	})
}

func assertSameJournal(t *testing.T, want, got *model.DayJournal) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Date.Equal(got.Date), "date %v != %v", want.Date, got.Date)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.TargetMinutes, got.TargetMinutes)
	assert.Equal(t, want.Version, got.Version)
	for _, s := range model.Slots {
		w, g := want.At(s), got.At(s)
		if w == nil {
			assert.Nil(t, g, "slot %s", s)
			continue
		}
		if assert.NotNil(t, g, "slot %s", s) {
			assert.True(t, w.Equal(*g), "slot %s: %v != %v", s, *w, *g)
		}
	}
}

func TestMemoryRepository(t *testing.T) {
	contractTest(t, func(t *testing.T) repository.Repository {
		return repository.NewMemoryRepository()
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := repository.NewMemoryRepository()
	j, _, err := core.RecordPunch(nil, day(8), 528)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), j))

	stored, err := repo.FindByDate(context.Background(), day(8))
	require.NoError(t, err)
	stored.Set(model.SlotLunchOut, day(12))

	again, err := repo.FindByDate(context.Background(), day(8))
	require.NoError(t, err)
	assert.Nil(t, again.LunchOut)
}
