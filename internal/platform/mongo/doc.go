// Package mongo implements the internal/store interfaces on MongoDB. Each
// user is a single document embedding its tokens, cart and orders, and every
// mutation is one atomic update using array operators or an update pipeline.
package mongo
