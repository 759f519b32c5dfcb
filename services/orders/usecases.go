package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
)

// DB is the pool-level contract the service needs: plain reads plus the
// ability to open a transaction. *pgxpool.Pool satisfies it.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderService orchestrates checkout: validation, the atomic
// customer/order/line-item transaction, and the read-side aggregate.
type OrderService struct {
	db        DB
	books     BookRepository
	customers CustomerRepository
	orders    OrderRepository
	lineItems LineItemRepository
	validator *Validator
}

func NewOrderService(
	db DB,
	books BookRepository,
	customers CustomerRepository,
	orders OrderRepository,
	lineItems LineItemRepository,
	validator *Validator,
) *OrderService {
	return &OrderService{
		db:        db,
		books:     books,
		customers: customers,
		orders:    orders,
		lineItems: lineItems,
		validator: validator,
	}
}

// PlaceOrder validates the submission and records customer, order and line
// items in one transaction. It returns the new order id, or a typed error:
// *ValidationFailure before any write, *StorageError for transaction
// failures (including a failed rollback). The id is only meaningful when the
// error is nil.
func (s *OrderService) PlaceOrder(ctx context.Context, form CustomerForm, cart ShoppingCart) (int64, error) {
	if err := s.validator.Validate(ctx, form, cart); err != nil {
		return 0, err
	}

	ccExpDate, err := cardExpirationDate(form.CcExpiryMonth, form.CcExpiryYear)
	if err != nil {
		// The validator already parsed these fields.
		return 0, fmt.Errorf("re-parsing validated expiry date: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, &StorageError{Op: "begin transaction", Err: err}
	}
	return s.placeOrderTx(ctx, tx, form, ccExpDate, cart)
}

// placeOrderTx runs the insert sequence on tx. The deferred rollback releases
// the transaction on every non-commit path, panics included; after a
// successful commit it is a no-op the driver reports as ErrTxClosed.
func (s *OrderService) placeOrderTx(ctx context.Context, tx pgx.Tx, form CustomerForm, ccExpDate time.Time, cart ShoppingCart) (orderID int64, err error) {
	defer func() {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Printf("❌ Failed to roll back order transaction: %v", rbErr)
			orderID = 0
			err = &StorageError{Op: "rollback", Err: rbErr}
		}
	}()

	customerID, err := s.customers.Create(ctx, tx,
		form.Name, form.Address, form.Phone, form.Email, form.CcNumber, ccExpDate)
	if err != nil {
		return 0, err
	}

	amount := cart.ComputedSubtotal() + cart.Surcharge()
	orderID, err = s.orders.Create(ctx, tx, amount, generateConfirmationNumber(), customerID)
	if err != nil {
		return 0, err
	}

	for _, item := range cart.Items {
		if err := s.lineItems.Create(ctx, tx, orderID, item.BookID, item.Quantity); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &StorageError{Op: "commit", Err: err}
	}

	log.Printf("✅ Order %d placed for customer %d (%d items, %d cents)",
		orderID, customerID, len(cart.Items), amount)
	return orderID, nil
}

// GetOrderDetails assembles the full order view. Books is parallel-indexed to
// LineItems. Any missing referent surfaces as ErrNotFound.
func (s *OrderService) GetOrderDetails(ctx context.Context, orderID int64) (*OrderDetails, error) {
	order, err := s.orders.FindByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByCustomerID(ctx, s.db, order.CustomerID)
	if err != nil {
		return nil, err
	}
	lineItems, err := s.lineItems.FindByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	books := make([]Book, 0, len(lineItems))
	for _, item := range lineItems {
		book, err := s.books.FindByBookID(ctx, s.db, item.BookID)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return &OrderDetails{
		Order:     *order,
		Customer:  *customer,
		LineItems: lineItems,
		Books:     books,
	}, nil
}

// GetBook exposes the catalog read used by the book endpoint.
func (s *OrderService) GetBook(ctx context.Context, bookID int64) (*Book, error) {
	return s.books.FindByBookID(ctx, s.db, bookID)
}
