// Package testutils provides helpers shared by the package tests: in-memory
// implementations of the store interfaces, builders for domain entities with
// functional options, and a slog handler that captures log records.
//
//	users := testutils.NewMemoryUserStore()
//	product := testutils.MustCreateProductForTest(t, testutils.WithSell(false))
//	products := testutils.NewMemoryProductStore(product)
package testutils
