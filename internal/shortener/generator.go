package shortener

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"strings"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" // 62 chars

var base = big.NewInt(int64(len(alphabet)))

// CodeGenerator produces candidate short codes.
type CodeGenerator interface {
	NewCode() string
}

// RandomGenerator implements CodeGenerator with random base62 strings of a
// fixed length. It draws from crypto/rand and falls back to math/rand when
// the system source is unavailable; the codes are best-effort unique, not
// collision-resistant.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator with the given code length
// (default 6 if <= 0).
func NewRandomGenerator(length int) *RandomGenerator {
	if length <= 0 {
		length = 6
	}
	return &RandomGenerator{length: length}
}

// NewCode returns a fresh random code.
func (g *RandomGenerator) NewCode() string {
	var b strings.Builder
	b.Grow(g.length)
	for i := 0; i < g.length; i++ {
		idx, err := crand.Int(crand.Reader, base) // uniform in [0,62)
		if err != nil {
			b.WriteByte(alphabet[mrand.IntN(len(alphabet))])
			continue
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}

var _ CodeGenerator = (*RandomGenerator)(nil)
