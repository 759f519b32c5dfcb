package main

import (
	"math/rand"
	"time"
)

// Book is a catalog record. The checkout path only reads it; price and
// category are the fields cross-checked against what the client's cart claims.
type Book struct {
	BookID     int64  `json:"book_id" db:"book_id"`
	Title      string `json:"title" db:"title"`
	Author     string `json:"author" db:"author"`
	Price      int64  `json:"price" db:"price"`
	IsPublic   bool   `json:"is_public" db:"is_public"`
	CategoryID int    `json:"category_id" db:"category_id"`
}

// CustomerForm is the raw checkout submission. All fields arrive as text;
// normalization and validation happen in the validator.
type CustomerForm struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CcNumber      string `json:"cc_number"`
	CcExpiryMonth string `json:"cc_expiry_month"`
	CcExpiryYear  string `json:"cc_expiry_year"`
}

// Customer is a persisted customer row.
type Customer struct {
	CustomerID       int64     `json:"customer_id" db:"customer_id"`
	Name             string    `json:"name" db:"name"`
	Address          string    `json:"address" db:"address"`
	Phone            string    `json:"phone" db:"phone"`
	Email            string    `json:"email" db:"email"`
	CcNumber         string    `json:"cc_number" db:"cc_number"`
	CcExpirationDate time.Time `json:"cc_expiration_date" db:"cc_expiration_date"`
}

// Order is a persisted order row.
type Order struct {
	OrderID            int64     `json:"order_id" db:"order_id"`
	Amount             int64     `json:"amount" db:"amount"`
	ConfirmationNumber int       `json:"confirmation_number" db:"confirmation_number"`
	CustomerID         int64     `json:"customer_id" db:"customer_id"`
	DateCreated        time.Time `json:"date_created" db:"date_created"`
}

// LineItem records one book within one order. (order_id, book_id) is unique
// per order; quantity mirrors the cart item at submission time.
type LineItem struct {
	OrderID  int64 `json:"order_id" db:"order_id"`
	BookID   int64 `json:"book_id" db:"book_id"`
	Quantity int   `json:"quantity" db:"quantity"`
}

// OrderDetails is the read-side aggregate: Books is parallel-indexed to
// LineItems, so Books[i] describes LineItems[i].BookID.
type OrderDetails struct {
	Order     Order      `json:"order"`
	Customer  Customer   `json:"customer"`
	LineItems []LineItem `json:"line_items"`
	Books     []Book     `json:"books"`
}

// ShoppingCartItem is one pending purchase line. Price and CategoryID are the
// values the client believed at add-to-cart time; validation compares them
// against the current catalog.
type ShoppingCartItem struct {
	BookID     int64 `json:"book_id"`
	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price"`
	CategoryID int   `json:"category_id"`
}

// ShoppingCart is the cart snapshot submitted at checkout.
type ShoppingCart struct {
	Items []ShoppingCartItem `json:"items"`
}

// surchargeInCents is the flat shipping/handling fee added to every order.
const surchargeInCents = 500

// ComputedSubtotal sums price * quantity over all items, in cents.
func (c ShoppingCart) ComputedSubtotal() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.Price * int64(item.Quantity)
	}
	return subtotal
}

// Surcharge returns the cart's additive fee, in cents.
func (c ShoppingCart) Surcharge() int64 {
	return surchargeInCents
}

// confirmationNumberSpace bounds the human-facing order reference.
const confirmationNumberSpace = 1_000_000_000

// generateConfirmationNumber draws a uniform value in [0, 1e9). The top-level
// math/rand generator is safe for concurrent use.
func generateConfirmationNumber() int {
	return rand.Intn(confirmationNumberSpace)
}
