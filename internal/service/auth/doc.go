// Package auth issues and verifies signed session tokens and hashes passwords.
package auth
