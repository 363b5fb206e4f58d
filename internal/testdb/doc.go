//go:build integration

// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL database. Tests using it are compiled only with the
// integration build tag and are skipped when no database URL is configured.
package testdb
