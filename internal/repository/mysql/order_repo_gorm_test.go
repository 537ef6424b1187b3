package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"printstore/internal/domain"
	"printstore/internal/repository"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestOrderRepo_Save(t *testing.T) {
	saveSQL := regexp.QuoteMeta("UPDATE `orders` SET ") +
		".*" + regexp.QuoteMeta("`version`=version + 1") +
		".*" + regexp.QuoteMeta("WHERE (id = ? AND version = ?) AND `orders`.`deleted_at` IS NULL")

	tests := []struct {
		name            string
		rowsAffected    int64
		expectedError   error
		expectedVersion int64
	}{
		{name: "matching version bumps it", rowsAffected: 1, expectedVersion: 4},
		{name: "stale version is a conflict", rowsAffected: 0, expectedError: repository.ErrVersionConflict, expectedVersion: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectExec(saveSQL).
				WithArgs(
					sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
					sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
					sqlmock.AnyArg(), "order-1", int64(3),
				).
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			repo := &orderRepo{db: db, logger: zap.NewNop()}
			order := &domain.Order{
				ID:          "order-1",
				Version:     3,
				Status:      domain.StatusPending,
				SubTotal:    decimal.RequireFromString("20"),
				TotalAmount: decimal.RequireFromString("53021"),
			}
			err := repo.Save(context.Background(), order)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedVersion, order.Version)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrderRepo_DeleteIsSoft(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `orders` SET `deleted_at`=? WHERE id = ? AND `orders`.`deleted_at` IS NULL")).
		WithArgs(sqlmock.AnyArg(), "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &orderRepo{db: db, logger: zap.NewNop()}
	require.NoError(t, repo.Delete(context.Background(), "order-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_FindByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `orders` WHERE id = ? AND `orders`.`deleted_at` IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := &orderRepo{db: db, logger: zap.NewNop()}
	order, err := repo.FindByID(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderItemRepo_ListByOrderBreaksTies(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `order_items` WHERE order_id = ? ORDER BY order_items.created_at ASC, order_items.id ASC")).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "variant_id", "quantity", "price"}).
			AddRow("item-1", "order-1", "variant-1", 1, "20.00").
			AddRow("item-2", "order-1", "variant-1", 2, "20.00"))

	repo := &orderItemRepo{db: db}
	items, err := repo.ListByOrder(context.Background(), "order-1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "item-1", items[0].ID)
	assert.Equal(t, "item-2", items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
