package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookRepository simulates catalog reads.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindByBookID(ctx context.Context, conn DBTX, bookID int64) (*Book, error) {
	args := m.Called(ctx, conn, bookID)
	if book, ok := args.Get(0).(*Book); ok {
		return book, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCustomerRepository simulates customer persistence.
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, conn DBTX, name, address, phone, email, ccNumber string, ccExpirationDate time.Time) (int64, error) {
	args := m.Called(ctx, conn, name, address, phone, email, ccNumber, ccExpirationDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindByCustomerID(ctx context.Context, conn DBTX, customerID int64) (*Customer, error) {
	args := m.Called(ctx, conn, customerID)
	if customer, ok := args.Get(0).(*Customer); ok {
		return customer, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockOrderRepository simulates order persistence.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, conn DBTX, amount int64, confirmationNumber int, customerID int64) (int64, error) {
	args := m.Called(ctx, conn, amount, confirmationNumber, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, conn DBTX, orderID int64) (*Order, error) {
	args := m.Called(ctx, conn, orderID)
	if order, ok := args.Get(0).(*Order); ok {
		return order, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLineItemRepository simulates line item persistence.
type MockLineItemRepository struct {
	mock.Mock
}

func (m *MockLineItemRepository) Create(ctx context.Context, conn DBTX, orderID, bookID int64, quantity int) error {
	args := m.Called(ctx, conn, orderID, bookID, quantity)
	return args.Error(0)
}

func (m *MockLineItemRepository) FindByOrderID(ctx context.Context, conn DBTX, orderID int64) ([]LineItem, error) {
	args := m.Called(ctx, conn, orderID)
	if items, ok := args.Get(0).([]LineItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeConn is a canned DBTX for exercising the repositories' error mapping
// without a database.
type fakeConn struct {
	execErr     error
	queryErr    error
	queryRowErr error
	rows        pgx.Rows
}

func (f *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: f.queryRowErr}
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.err
}

// emptyRows yields no rows. The embedded interface covers the methods the
// repositories never call.
type emptyRows struct {
	pgx.Rows
}

func (emptyRows) Next() bool { return false }
func (emptyRows) Err() error { return nil }
func (emptyRows) Close()     {}

func TestNewRepositories(t *testing.T) {
	assert.NotNil(t, NewPostgresBookRepository())
	assert.NotNil(t, NewPostgresCustomerRepository())
	assert.NotNil(t, NewPostgresOrderRepository())
	assert.NotNil(t, NewPostgresLineItemRepository())
}

func TestBookRepository_FindByBookID_NotFound(t *testing.T) {
	repo := NewPostgresBookRepository()
	conn := &fakeConn{queryRowErr: pgx.ErrNoRows}

	book, err := repo.FindByBookID(context.Background(), conn, 7)

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "book 7")
}

func TestBookRepository_FindByBookID_DriverError(t *testing.T) {
	repo := NewPostgresBookRepository()
	conn := &fakeConn{queryRowErr: errors.New("connection reset")}

	_, err := repo.FindByBookID(context.Background(), conn, 7)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "find book", storageErr.Op)
}

func TestCustomerRepository_Create_DriverError(t *testing.T) {
	repo := NewPostgresCustomerRepository()
	conn := &fakeConn{queryRowErr: errors.New("insert failed")}

	id, err := repo.Create(context.Background(), conn,
		"Jane Doe", "1 Main St", "4155550100", "j@x.io", "4111111111111111",
		time.Date(2099, time.December, 1, 0, 0, 0, 0, time.UTC))

	assert.Zero(t, id)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "insert customer", storageErr.Op)
}

func TestOrderRepository_FindByOrderID_NotFound(t *testing.T) {
	repo := NewPostgresOrderRepository()
	conn := &fakeConn{queryRowErr: pgx.ErrNoRows}

	order, err := repo.FindByOrderID(context.Background(), conn, 42)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLineItemRepository_Create(t *testing.T) {
	repo := NewPostgresLineItemRepository()

	err := repo.Create(context.Background(), &fakeConn{}, 1, 7, 2)
	assert.NoError(t, err)

	err = repo.Create(context.Background(), &fakeConn{execErr: errors.New("boom")}, 1, 7, 2)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "insert line item", storageErr.Op)
}

func TestLineItemRepository_FindByOrderID(t *testing.T) {
	repo := NewPostgresLineItemRepository()

	items, err := repo.FindByOrderID(context.Background(), &fakeConn{rows: emptyRows{}}, 1)
	assert.NoError(t, err)
	assert.Empty(t, items)

	_, err = repo.FindByOrderID(context.Background(), &fakeConn{queryErr: errors.New("boom")}, 1)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "find line items", storageErr.Op)
}
