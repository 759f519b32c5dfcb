package main

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS books (
		book_id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		price BIGINT NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		category_id INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		cc_number TEXT NOT NULL,
		cc_expiration_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id BIGSERIAL PRIMARY KEY,
		amount BIGINT NOT NULL,
		confirmation_number INT NOT NULL,
		customer_id BIGINT NOT NULL REFERENCES customers (customer_id),
		date_created TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS line_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders (order_id),
		book_id BIGINT NOT NULL REFERENCES books (book_id),
		quantity INT NOT NULL,
		UNIQUE (order_id, book_id)
	)`,
}

// seedBooks populates the catalog only when it is empty.
const seedBooks = `
	INSERT INTO books (title, author, price, category_id)
	SELECT v.title, v.author, v.price, v.category_id
	FROM (VALUES
		('The Art of Computer Programming', 'Donald Knuth', 21999, 1),
		('A Wizard of Earthsea', 'Ursula K. Le Guin', 1099, 2),
		('The Left Hand of Darkness', 'Ursula K. Le Guin', 1299, 2),
		('Dune', 'Frank Herbert', 1499, 2),
		('Cooking for Geeks', 'Jeff Potter', 2399, 3),
		('Salt Fat Acid Heat', 'Samin Nosrat', 3499, 3)
	) AS v(title, author, price, category_id)
	WHERE NOT EXISTS (SELECT 1 FROM books)
`

// runMigrations applies the idempotent schema and seeds the catalog. It runs
// once at startup over a short-lived database/sql handle.
func runMigrations(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	if _, err := db.Exec(seedBooks); err != nil {
		return fmt.Errorf("seeding books: %w", err)
	}
	return nil
}
