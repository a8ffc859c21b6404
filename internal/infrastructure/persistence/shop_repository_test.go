package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
)

// newMockShopRepository creates a GormShopRepository with a mocked SQL connection
func newMockShopRepository(t *testing.T) (*GormShopRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormShopRepository(gormDB), mock, mockDB
}

func TestGormShopRepository_FindByID(t *testing.T) {
	t.Run("finds existing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		ownerID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "owner_id", "name", "platform"}).
			AddRow(shopID, now, now, ownerID, "Corner Store", "PRIMARY")

		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnRows(rows)

		shop, err := repo.FindByID(context.Background(), shopID)

		assert.NoError(t, err)
		require.NotNil(t, shop)
		assert.Equal(t, shopID, shop.ID)
		assert.Equal(t, ownerID, shop.OwnerID)
		assert.Equal(t, "Corner Store", shop.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "shops" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(shopID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), shopID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormShopRepository_Exists(t *testing.T) {
	t.Run("reports existing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shops" WHERE id = \$1`).
			WithArgs(shopID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.Exists(context.Background(), shopID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports missing shop", func(t *testing.T) {
		repo, mock, mockDB := newMockShopRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "shops" WHERE id = \$1`).
			WithArgs(shopID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.Exists(context.Background(), shopID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
