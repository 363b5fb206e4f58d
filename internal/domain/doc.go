// Package domain contains the core business entities of the shop: the User
// aggregate with its session tokens, cart and order history, the Product
// read-model, and the error kinds shared by every layer.
package domain
