package auth

import "golang.org/x/crypto/bcrypt"

// Hasher wraps bcrypt with an explicit cost factor, so production and tests
// pick their own tradeoff between hashing time and throughput.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside the bcrypt
// range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword derives a salted one-way hash of plain.
func (h *Hasher) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches hash. The underlying comparison
// is constant-time; a malformed hash counts as a mismatch, never an error.
func (h *Hasher) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
