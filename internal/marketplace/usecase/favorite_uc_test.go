package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestFavoriteUsecase(repo domain.FavoriteRepository) *FavoriteUsecase {
	uc := NewFavoriteUsecase(repo, logger.NewNop())
	uc.now = fixedClock
	uc.newID = sequenceIDs("fav-1", "fav-2", "fav-3")
	return uc
}

// memFavorites keeps one row per (user, listing) like the unique index does.
type memFavorites struct {
	mu   sync.Mutex
	rows map[string]domain.Favorite
}

func (m *memFavorites) Exists(_ context.Context, userID, listingID string) (bool, error) {
	ids, _ := m.FindIDs(context.Background(), userID, listingID)
	return len(ids) > 0, nil
}

func (m *memFavorites) Add(_ context.Context, f *domain.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.UserID == f.UserID && row.ListingID == f.ListingID {
			return domain.ErrAlreadyFavorited
		}
	}
	m.rows[f.ID] = *f
	return nil
}

func (m *memFavorites) FindIDs(_ context.Context, userID, listingID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, row := range m.rows {
		if row.UserID == userID && row.ListingID == listingID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memFavorites) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memFavorites) ListingIDsByUser(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []string{}
	for _, row := range m.rows {
		if row.UserID == userID {
			ids = append(ids, row.ListingID)
		}
	}
	return ids, nil
}

func TestFavoriteUsecase_AddTwice(t *testing.T) {
	ctx := context.Background()
	uc := newTestFavoriteUsecase(&memFavorites{rows: map[string]domain.Favorite{}})

	require.NoError(t, uc.AddFavorite(ctx, "u1", "c1"))
	err := uc.AddFavorite(ctx, "u1", "c1")
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	ids, err := uc.ListFavoriteListingIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)

	require.NoError(t, uc.RemoveFavorite(ctx, "u1", "c1"))
	assert.ErrorIs(t, uc.RemoveFavorite(ctx, "u1", "c1"), domain.ErrNotFavorited)

	ids, err = uc.ListFavoriteListingIDs(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFavoriteUsecase_AddFavorite(t *testing.T) {
	ctx := context.Background()
	repo := new(MockFavoriteRepository)
	uc := newTestFavoriteUsecase(repo)

	t.Run("StoresNewRow", func(t *testing.T) {
		repo.On("Exists", ctx, "u1", "c1").Return(false, nil).Once()
		repo.On("Add", ctx, &domain.Favorite{ID: "fav-1", UserID: "u1", ListingID: "c1", CreatedAt: fixedNow}).Return(nil).Once()

		assert.NoError(t, uc.AddFavorite(ctx, "u1", "c1"))
		repo.AssertExpectations(t)
		repo.Mock = mock.Mock{}
	})

	t.Run("RacingInsertHitsUniqueIndex", func(t *testing.T) {
		repo.On("Exists", ctx, "u1", "c1").Return(false, nil).Once()
		repo.On("Add", ctx, mock.AnythingOfType("*domain.Favorite")).Return(domain.ErrAlreadyFavorited).Once()

		assert.ErrorIs(t, uc.AddFavorite(ctx, "u1", "c1"), domain.ErrAlreadyFavorited)
		repo.AssertExpectations(t)
		repo.Mock = mock.Mock{}
	})

	t.Run("MissingIDs", func(t *testing.T) {
		assert.ErrorIs(t, uc.AddFavorite(ctx, "", "c1"), domain.ErrInvalidInput)
		repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ExistsFails", func(t *testing.T) {
		repo.On("Exists", ctx, "u1", "c1").Return(false, domain.BackendError("count favorites", errors.New("timeout"))).Once()

		assert.ErrorIs(t, uc.AddFavorite(ctx, "u1", "c1"), domain.ErrBackend)
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		repo.Mock = mock.Mock{}
	})
}

func TestFavoriteUsecase_RemoveFavorite(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesEveryDuplicateRow", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		repo.On("FindIDs", ctx, "u1", "c1").Return([]string{"a", "b", "c"}, nil).Once()
		for _, id := range []string{"a", "b", "c"} {
			repo.On("DeleteByID", mock.Anything, id).Return(nil).Once()
		}
		uc := newTestFavoriteUsecase(repo)

		assert.NoError(t, uc.RemoveFavorite(ctx, "u1", "c1"))
		repo.AssertExpectations(t)
	})

	t.Run("OneDeleteFails", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		boom := domain.BackendError("delete favorite", errors.New("boom"))
		repo.On("FindIDs", ctx, "u1", "c1").Return([]string{"a", "b"}, nil).Once()
		repo.On("DeleteByID", mock.Anything, "a").Return(boom).Once()
		repo.On("DeleteByID", mock.Anything, "b").Return(nil).Maybe()
		uc := newTestFavoriteUsecase(repo)

		assert.ErrorIs(t, uc.RemoveFavorite(ctx, "u1", "c1"), domain.ErrBackend)
	})

	t.Run("NothingToRemove", func(t *testing.T) {
		repo := new(MockFavoriteRepository)
		repo.On("FindIDs", ctx, "u1", "c1").Return([]string{}, nil).Once()
		uc := newTestFavoriteUsecase(repo)

		assert.ErrorIs(t, uc.RemoveFavorite(ctx, "u1", "c1"), domain.ErrNotFavorited)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})
}
