package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartadega/smartadega-api/internal/apperrors"
	"github.com/smartadega/smartadega-api/internal/models"
)

func newWine(owner, name string, createdAt time.Time) *models.Wine {
	w := &models.Wine{
		OwnerID:  owner,
		Name:     name,
		Region:   models.DefaultRegion,
		Year:     2018,
		Quantity: 1,
	}
	w.ID = uuid.New()
	w.CreatedAt = createdAt
	w.UpdatedAt = createdAt
	return w
}

func TestMemoryOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	now := time.Now()

	w := newWine("u1", "Riesling", now)
	require.NoError(t, repo.Create(ctx, w))

	_, err := repo.GetByID(ctx, w.ID, "u2")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	qty := 9
	_, err = repo.Update(ctx, w.ID, "u2", models.WineChanges{Quantity: &qty}, now)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	err = repo.Delete(ctx, w.ID, "u2")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	got, err := repo.GetByID(ctx, w.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)

	wines, total, err := repo.ListByOwner(ctx, "u2", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, wines)
	assert.Zero(t, total)
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newWine("u1", "first", base)))
	require.NoError(t, repo.Create(ctx, newWine("u1", "second", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newWine("u1", "same-instant", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newWine("u2", "other", base.Add(time.Hour))))

	wines, total, err := repo.ListByOwner(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	names := []string{wines[0].Name, wines[1].Name, wines[2].Name}
	assert.Equal(t, []string{"same-instant", "second", "first"}, names)

	page, total, err := repo.ListByOwner(ctx, "u1", ListOptions{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Name)

	page, _, err = repo.ListByOwner(ctx, "u1", ListOptions{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := newWine("u1", "Riesling", created)
	require.NoError(t, repo.Create(ctx, w))

	qty := 5
	later := created.Add(time.Hour)
	updated, err := repo.Update(ctx, w.ID, "u1", models.WineChanges{Quantity: &qty}, later)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "Riesling", updated.Name)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	require.NoError(t, repo.Delete(ctx, w.ID, "u1"))
	_, err = repo.GetByID(ctx, w.ID, "u1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	err = repo.Delete(ctx, w.ID, "u1")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	w := newWine("u1", "Riesling", time.Now())
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.GetByID(ctx, w.ID, "u1")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, w.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Riesling", again.Name)
}

func TestMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewMemoryWineRepository().ListByOwner(ctx, "u1", ListOptions{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestMemoryConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, newWine("u1", fmt.Sprintf("wine-%d", i), time.Now())))
		}(i)
	}
	wg.Wait()

	_, total, err := repo.ListByOwner(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
}

func TestMemoryConcurrentListAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	now := time.Now()

	w := newWine("u1", "Tannat", now)
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Create(ctx, newWine("u1", "Malbec", now.Add(time.Second))))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			qty := i
			_, err := repo.Update(ctx, w.ID, "u1", models.WineChanges{Quantity: &qty}, now)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			wines, total, err := repo.ListByOwner(ctx, "u1", ListOptions{Offset: 0, Limit: 1})
			assert.NoError(t, err)
			assert.Len(t, wines, 1)
			assert.Equal(t, int64(2), total)
		}
	}()
	wg.Wait()

	got, err := repo.GetByID(ctx, w.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1999, got.Quantity)
}

func TestMemoryListOutOfRangeOffset(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	require.NoError(t, repo.Create(ctx, newWine("u1", "Syrah", time.Now())))

	for _, offset := range []int{-100, 1, 1 << 30} {
		wines, total, err := repo.ListByOwner(ctx, "u1", ListOptions{Offset: offset, Limit: 100})
		require.NoError(t, err, "offset %d", offset)
		assert.Equal(t, int64(1), total)
		if offset < 0 {
			assert.Len(t, wines, 1)
		} else {
			assert.Empty(t, wines)
		}
	}
}

func TestMemoryEmptyUpdateOnlyTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryWineRepository()
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	w := newWine("u1", "Carmenere", created)
	w.Grape = "Carmenere"
	w.Price = 59.9
	w.Rating = 4
	require.NoError(t, repo.Create(ctx, w))

	later := created.Add(time.Hour)
	got, err := repo.Update(ctx, w.ID, "u1", models.WineChanges{}, later)
	require.NoError(t, err)

	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, created, got.CreatedAt)
	got.UpdatedAt = w.UpdatedAt
	assert.Equal(t, *w, *got)
}
