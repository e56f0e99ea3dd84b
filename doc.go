// Package auth implements the account and login service core: user
// registration with password strength and field validation, credential
// verification, JWT session token issuance, and profile mutation over a
// bun-backed user store.
package auth
