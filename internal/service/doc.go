// Package service contains the application use cases of the shop: account
// management and session tokens, the shopping cart and order history, and the
// product catalog. Services receive their stores and collaborators through
// constructor injection and never depend on a specific database.
//
// Every state change is delegated to a single atomic store operation; the
// services validate input, resolve references and translate store errors
// into the sentinel errors declared in errors.go.
package service
