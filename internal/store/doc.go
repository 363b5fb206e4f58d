// Package store defines the persistence interfaces for the User aggregate and
// the product catalog, the errors they return, and the transaction helper
// shared by the SQL implementation. Implementations live under
// internal/platform.
package store
