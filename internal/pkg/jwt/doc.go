// Package jwt issues and verifies HS512 account access tokens and moves the
// verified claims through a request context.
package jwt
