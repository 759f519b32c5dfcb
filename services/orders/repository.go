package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the slice of pgx both *pgxpool.Pool and pgx.Tx satisfy. Writes take
// the caller's transactional connection; reads accept either.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BookRepository reads catalog records.
type BookRepository interface {
	FindByBookID(ctx context.Context, conn DBTX, bookID int64) (*Book, error)
}

// CustomerRepository persists and reads customers.
type CustomerRepository interface {
	Create(ctx context.Context, conn DBTX, name, address, phone, email, ccNumber string, ccExpirationDate time.Time) (int64, error)
	FindByCustomerID(ctx context.Context, conn DBTX, customerID int64) (*Customer, error)
}

// OrderRepository persists and reads order headers.
type OrderRepository interface {
	Create(ctx context.Context, conn DBTX, amount int64, confirmationNumber int, customerID int64) (int64, error)
	FindByOrderID(ctx context.Context, conn DBTX, orderID int64) (*Order, error)
}

// LineItemRepository persists and reads the books within an order.
type LineItemRepository interface {
	Create(ctx context.Context, conn DBTX, orderID, bookID int64, quantity int) error
	FindByOrderID(ctx context.Context, conn DBTX, orderID int64) ([]LineItem, error)
}

type PostgresBookRepository struct{}

func NewPostgresBookRepository() *PostgresBookRepository {
	return &PostgresBookRepository{}
}

func (r *PostgresBookRepository) FindByBookID(ctx context.Context, conn DBTX, bookID int64) (*Book, error) {
	var book Book
	err := conn.QueryRow(ctx, `
		SELECT book_id, title, author, price, is_public, category_id
		FROM books WHERE book_id = $1
	`, bookID).Scan(&book.BookID, &book.Title, &book.Author, &book.Price, &book.IsPublic, &book.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Op: "find book", Err: err}
	}
	return &book, nil
}

type PostgresCustomerRepository struct{}

func NewPostgresCustomerRepository() *PostgresCustomerRepository {
	return &PostgresCustomerRepository{}
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, conn DBTX, name, address, phone, email, ccNumber string, ccExpirationDate time.Time) (int64, error) {
	var customerID int64
	err := conn.QueryRow(ctx, `
		INSERT INTO customers (name, address, phone, email, cc_number, cc_expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING customer_id
	`, name, address, phone, email, ccNumber, ccExpirationDate).Scan(&customerID)
	if err != nil {
		return 0, &StorageError{Op: "insert customer", Err: err}
	}
	return customerID, nil
}

func (r *PostgresCustomerRepository) FindByCustomerID(ctx context.Context, conn DBTX, customerID int64) (*Customer, error) {
	var customer Customer
	err := conn.QueryRow(ctx, `
		SELECT customer_id, name, address, phone, email, cc_number, cc_expiration_date
		FROM customers WHERE customer_id = $1
	`, customerID).Scan(&customer.CustomerID, &customer.Name, &customer.Address, &customer.Phone,
		&customer.Email, &customer.CcNumber, &customer.CcExpirationDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Op: "find customer", Err: err}
	}
	return &customer, nil
}

type PostgresOrderRepository struct{}

func NewPostgresOrderRepository() *PostgresOrderRepository {
	return &PostgresOrderRepository{}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, conn DBTX, amount int64, confirmationNumber int, customerID int64) (int64, error) {
	var orderID int64
	err := conn.QueryRow(ctx, `
		INSERT INTO orders (amount, confirmation_number, customer_id)
		VALUES ($1, $2, $3)
		RETURNING order_id
	`, amount, confirmationNumber, customerID).Scan(&orderID)
	if err != nil {
		return 0, &StorageError{Op: "insert order", Err: err}
	}
	return orderID, nil
}

func (r *PostgresOrderRepository) FindByOrderID(ctx context.Context, conn DBTX, orderID int64) (*Order, error) {
	var order Order
	err := conn.QueryRow(ctx, `
		SELECT order_id, amount, confirmation_number, customer_id, date_created
		FROM orders WHERE order_id = $1
	`, orderID).Scan(&order.OrderID, &order.Amount, &order.ConfirmationNumber, &order.CustomerID, &order.DateCreated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Op: "find order", Err: err}
	}
	return &order, nil
}

type PostgresLineItemRepository struct{}

func NewPostgresLineItemRepository() *PostgresLineItemRepository {
	return &PostgresLineItemRepository{}
}

func (r *PostgresLineItemRepository) Create(ctx context.Context, conn DBTX, orderID, bookID int64, quantity int) error {
	_, err := conn.Exec(ctx, `
		INSERT INTO line_items (order_id, book_id, quantity)
		VALUES ($1, $2, $3)
	`, orderID, bookID, quantity)
	if err != nil {
		return &StorageError{Op: "insert line item", Err: err}
	}
	return nil
}

// FindByOrderID returns the order's line items ordered by their serial id,
// which is the insertion order of the placing transaction.
func (r *PostgresLineItemRepository) FindByOrderID(ctx context.Context, conn DBTX, orderID int64) ([]LineItem, error) {
	rows, err := conn.Query(ctx, `
		SELECT order_id, book_id, quantity
		FROM line_items WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, &StorageError{Op: "find line items", Err: err}
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.OrderID, &item.BookID, &item.Quantity); err != nil {
			return nil, &StorageError{Op: "scan line item", Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "find line items", Err: err}
	}
	return items, nil
}
