package idgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/participant/internal/clock"
)

// Version is the UUID version of every generated identifier.
const Version = 7

var (
	// ErrEntropy is returned when neither the primary nor the fallback
	// random source could be read.
	ErrEntropy = errors.New("idgen: entropy source failed")

	// ErrInvalid reports a value that is not a canonical version 7 identifier.
	ErrInvalid = errors.New("idgen: invalid identifier")
)

// Generator lays out version 7 identifiers. The zero value is not usable,
// use NewGenerator.
type Generator struct {
	// Entropy is the primary random source (crypto/rand by default).
	Entropy io.Reader
	// Fallback feeds the random segments when Entropy fails. The timestamp
	// segment always comes from the clock.
	Fallback io.Reader
	// OnFallback is called once, with the primary error, the first time the
	// fallback source is used.
	OnFallback func(err error)

	fallbackOnce sync.Once
}

// NewGenerator returns a Generator backed by crypto/rand with a seeded PCG
// fallback.
func NewGenerator() *Generator {
	return &Generator{Entropy: rand.Reader, Fallback: newPseudoReader()}
}

// Generate returns a new identifier.
func (g *Generator) Generate() (uuid.UUID, error) {
	var id uuid.UUID
	if err := g.fill(id[6:]); err != nil {
		return uuid.Nil, err
	}
	ms := uint64(clock.Now().UnixMilli())
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)
	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80
	return id, nil
}

func (g *Generator) fill(b []byte) error {
	_, err := io.ReadFull(g.Entropy, b)
	if err == nil {
		return nil
	}
	if g.Fallback == nil {
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	g.fallbackOnce.Do(func() {
		if g.OnFallback != nil {
			g.OnFallback(err)
		}
	})
	if _, fErr := io.ReadFull(g.Fallback, b); fErr != nil {
		return fmt.Errorf("%w: %v (fallback: %v)", ErrEntropy, err, fErr)
	}
	return nil
}

// Validate checks that value is a canonical lowercase, hyphenated version 7
// identifier with the RFC 4122 variant.
func Validate(value string) error {
	if len(value) != 36 || strings.ToLower(value) != value {
		return fmt.Errorf("%w: %q", ErrInvalid, value)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if id.Version() != Version || id.Variant() != uuid.RFC4122 {
		return fmt.Errorf("%w: version %d variant %s", ErrInvalid, id.Version(), id.Variant())
	}
	return nil
}

// Timestamp returns the creation instant encoded in the first 48 bits.
func Timestamp(id uuid.UUID) time.Time {
	var ms int64
	for i := 0; i < 6; i++ {
		ms = ms<<8 | int64(id[i])
	}
	return time.UnixMilli(ms).UTC()
}

// pseudoReader is a non-cryptographic byte source used only when the
// primary entropy reader fails.
type pseudoReader struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func newPseudoReader() *pseudoReader {
	seed := uint64(time.Now().UnixNano())
	return &pseudoReader{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pseudoReader) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := 0; i < len(b); i += 8 {
		v := p.rng.Uint64()
		for j := 0; j < 8 && i+j < len(b); j++ {
			b[i+j] = byte(v >> (8 * j))
		}
	}
	return len(b), nil
}
