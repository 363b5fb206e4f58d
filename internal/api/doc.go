// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// services in internal/service and answer with the shared envelope
// {success, message, result, token}. Service errors are mapped to status
// codes by kind in errors.go.
package api
