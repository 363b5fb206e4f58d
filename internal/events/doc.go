// Package events defines domain events and the emitter that fans them out to
// handlers. Services emit events without knowing whether they end up in the
// log or on a message broker.
package events
