package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/access"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
)

func setupAccessTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ShopModel{}, &models.GrantModel{})
	require.NoError(t, err)

	return db
}

func TestGormShopRepository_SaveAndFindByOwner(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewGormShopRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()

	first, err := access.NewShop(ownerID, "First Shop", "PRIMARY")
	require.NoError(t, err)
	second, err := access.NewShop(ownerID, "Second Shop", "MARKETPLACE")
	require.NoError(t, err)
	other, err := access.NewShop(uuid.New(), "Someone Else", "")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, other))

	shops, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	for _, s := range shops {
		assert.Equal(t, ownerID, s.OwnerID)
	}

	exists, err := repo.Exists(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormGrantRepository_SaveAndFind(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewGormGrantRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopA := uuid.New()
	shopB := uuid.New()
	ownerID := uuid.New()

	grantA, err := access.NewGrant(userID, shopA, ownerID)
	require.NoError(t, err)
	grantB, err := access.NewGrant(userID, shopB, ownerID)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, grantA))
	require.NoError(t, repo.Save(ctx, grantB))

	t.Run("finds by user and shop", func(t *testing.T) {
		found, err := repo.FindByUserAndShop(ctx, userID, shopA)
		require.NoError(t, err)
		assert.Equal(t, grantA.ID, found.ID)
		assert.Equal(t, ownerID, found.GrantedBy)
	})

	t.Run("missing pair is not found", func(t *testing.T) {
		_, err := repo.FindByUserAndShop(ctx, uuid.New(), shopA)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists grants for a user", func(t *testing.T) {
		grants, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, grants, 2)
	})
}

func TestGormGrantRepository_Delete(t *testing.T) {
	db := setupAccessTestDB(t)
	repo := NewGormGrantRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopID := uuid.New()

	grant, err := access.NewGrant(userID, shopID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, grant))

	require.NoError(t, repo.Delete(ctx, userID, shopID))

	_, err = repo.FindByUserAndShop(ctx, userID, shopID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, userID, shopID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
