// Package task runs background work on a bounded in-memory queue drained by a
// fixed pool of workers. It is used to deliver domain events to slow
// handlers, such as the message broker publisher, without blocking HTTP
// request handling.
package task
