// Package postgres implements the internal/store interfaces on PostgreSQL
// through the pgx database/sql driver. The User aggregate is normalised into
// users, user_tokens, cart_items, orders and order_items so every aggregate
// mutation is a single statement or a single transaction. Schema migrations
// are embedded and applied with goose.
package postgres
