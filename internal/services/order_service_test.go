// internal/services/order_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/agritrace-backend/internal/models"
)

// newMockDB opens a gorm handle over a sqlmock connection. Expectations
// are matched in order, so placing a statement before ExpectCommit also
// asserts it runs inside the transaction.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCreateOrderComputesTotalPrice(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil)

	retailerID := uuid.New()
	productID := uuid.New()
	farmID := uuid.New()
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "name", "price", "quantity", "status"}).
			AddRow(productID.String(), farmID.String(), "Arabica beans", 12.5, 40, "available"))
	mock.ExpectExec(`UPDATE "products" SET "quantity"=quantity - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "products" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID.String()))
	mock.ExpectCommit()

	// Reload with preloads after commit.
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "retailer_id", "product_id", "quantity", "total_price", "status"}).
			AddRow(orderID.String(), retailerID.String(), productID.String(), 3, 37.5, "pending"))
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "price", "quantity", "status"}).
			AddRow(productID.String(), farmID.String(), 12.5, 37, "available"))
	mock.ExpectQuery(`SELECT \* FROM "farms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name"}).
			AddRow(farmID.String(), uuid.New().String(), "Hillside Farm"))

	order, err := svc.CreateOrder(retailerID, models.UserRoleRetailer, &CreateOrderRequest{
		ProductID: productID,
		Quantity:  3,
	})
	require.NoError(t, err)

	assert.InDelta(t, 37.5, order.TotalPrice, 1e-9)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderLostReserveRaceIsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil)

	productID := uuid.New()

	// The read sees enough stock but the conditional update matches no
	// row: a concurrent order drained it first.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "price", "quantity", "status"}).
			AddRow(productID.String(), uuid.New().String(), 8.0, 10, "available"))
	mock.ExpectExec(`UPDATE "products" SET "quantity"=quantity - \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(uuid.New(), models.UserRoleRetailer, &CreateOrderRequest{
		ProductID: productID,
		Quantity:  5,
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderQuantityExceedsStock(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, nil)

	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "farm_id", "price", "quantity", "status"}).
			AddRow(productID.String(), uuid.New().String(), 8.0, 2, "available"))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(uuid.New(), models.UserRoleRetailer, &CreateOrderRequest{
		ProductID: productID,
		Quantity:  5,
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRequiresRetailerRole(t *testing.T) {
	svc := NewOrderService(nil, nil)

	_, err := svc.CreateOrder(uuid.New(), models.UserRoleFarm, &CreateOrderRequest{
		ProductID: uuid.New(),
		Quantity:  1,
	})
	assert.True(t, errors.Is(err, ErrForbidden))
}
