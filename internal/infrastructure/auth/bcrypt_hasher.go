package authinfra

import "golang.org/x/crypto/bcrypt"

// BcryptHasher verifies passwords with bcrypt.
type BcryptHasher struct{}

func (BcryptHasher) Compare(hashed, plain string) bool {
	if hashed == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

func (BcryptHasher) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

// HashPassword produces a bcrypt hash, used by seeding and migrations.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
