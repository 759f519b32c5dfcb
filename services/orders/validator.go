package main

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Validator runs the checkout checks in a fixed order; the first failure
// short-circuits the rest. Customer-form checks are pure; cart checks read
// the catalog through the book repository and never write.
type Validator struct {
	db    DBTX
	books BookRepository
}

func NewValidator(db DBTX, books BookRepository) *Validator {
	return &Validator{db: db, books: books}
}

// Validate returns nil or the first *ValidationFailure. Book lookups that
// fail for non-validation reasons propagate unchanged.
func (v *Validator) Validate(ctx context.Context, form CustomerForm, cart ShoppingCart) error {
	if err := v.validateCustomer(form); err != nil {
		return err
	}
	return v.validateCart(ctx, cart)
}

func (v *Validator) validateCustomer(form CustomerForm) error {
	if len(form.Name) < 4 || len(form.Name) > 45 {
		return &ValidationFailure{Field: "name", Message: "Invalid name field"}
	}
	if len(form.Address) < 4 || len(form.Address) > 45 {
		return &ValidationFailure{Field: "address", Message: "Invalid address field"}
	}
	if form.Phone == "" {
		return &ValidationFailure{Field: "phone", Message: "Missing phone field"}
	}
	if countDigits(form.Phone) < 10 {
		return &ValidationFailure{Field: "phone", Message: "Invalid phone field"}
	}
	if form.Email == "" || strings.Contains(form.Email, " ") ||
		!strings.Contains(form.Email, "@") || strings.HasSuffix(form.Email, ".") {
		return &ValidationFailure{Field: "email", Message: "Invalid email field"}
	}
	if form.CcNumber == "" {
		return &ValidationFailure{Field: "ccNumber", Message: "Missing ccNumber field"}
	}
	if n := countDigits(form.CcNumber); n < 14 || n > 16 {
		return &ValidationFailure{Field: "ccNumber", Message: "Invalid ccNumber field"}
	}
	if expiryDateIsInvalid(form.CcExpiryMonth, form.CcExpiryYear) {
		return &ValidationFailure{Message: "Please enter a valid expiration date."}
	}
	return nil
}

func (v *Validator) validateCart(ctx context.Context, cart ShoppingCart) error {
	if len(cart.Items) == 0 {
		return &ValidationFailure{Message: "Cart is empty."}
	}
	for _, item := range cart.Items {
		if item.Quantity < 0 || item.Quantity > 99 {
			return &ValidationFailure{Message: "Invalid quantity"}
		}
		book, err := v.books.FindByBookID(ctx, v.db, item.BookID)
		if err != nil {
			return err
		}
		if book.Price != item.Price {
			return &ValidationFailure{Message: "Price Error"}
		}
		if book.CategoryID != item.CategoryID {
			return &ValidationFailure{Message: "CategoryId Error"}
		}
	}
	return nil
}

// expiryDateIsInvalid reports whether month/year fail to parse, form an
// invalid calendar month, or fall before the current month.
func expiryDateIsInvalid(ccExpiryMonth, ccExpiryYear string) bool {
	expiryYear, err := strconv.Atoi(ccExpiryYear)
	if err != nil {
		return true
	}
	expiryMonth, err := strconv.Atoi(ccExpiryMonth)
	if err != nil {
		return true
	}
	if expiryMonth < 1 || expiryMonth > 12 {
		return true
	}
	now := time.Now()
	if expiryYear != now.Year() {
		return expiryYear < now.Year()
	}
	return time.Month(expiryMonth) < now.Month()
}

// cardExpirationDate pins the validated month/year to day 1, UTC midnight.
// The validator has already proven the parse succeeds.
func cardExpirationDate(ccExpiryMonth, ccExpiryYear string) (time.Time, error) {
	expiryYear, err := strconv.Atoi(ccExpiryYear)
	if err != nil {
		return time.Time{}, err
	}
	expiryMonth, err := strconv.Atoi(ccExpiryMonth)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(expiryYear, time.Month(expiryMonth), 1, 0, 0, 0, 0, time.UTC), nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
