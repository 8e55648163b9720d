package driven

// PasswordHasher is a one-way salted hashing primitive.
type PasswordHasher interface {
	// Hash returns a salted digest of plaintext. Two calls with the same input
	// return different digests.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. Malformed digests yield false.
	Verify(plaintext, digest string) bool
}
