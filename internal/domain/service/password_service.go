package service

// PasswordService hashes credentials at rest and verifies presented
// plaintexts. Implementations must only ever be invoked on the explicit
// password set/change paths; a generic account save never rehashes.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// CheckPasswordHash returns (false, nil) on a clean mismatch. A non-nil
	// error means the hash itself could not be processed and is internal, not
	// a validation failure.
	CheckPasswordHash(password, hash string) (bool, error)
}
