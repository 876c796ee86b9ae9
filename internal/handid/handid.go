// Package handid mints identifiers for completed hands. An ID is a
// UUIDv7 encoded as 26 characters of Crockford base32, so IDs sort by
// creation time and are safe in log lines and file names.
package handid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail of an ID. Tests inject a
// deterministic source; production code leaves it nil and gets
// crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator mints hand IDs with configurable randomness.
type Generator struct {
	rand RandSource
}

// NewGenerator returns a generator backed by rand, or by crypto/rand
// when rand is nil.
func NewGenerator(rand RandSource) *Generator {
	return &Generator{rand: rand}
}

// New mints an ID using crypto/rand.
func New() string {
	return NewGenerator(nil).New()
}

// New mints an ID from the generator's random source.
func (g *Generator) New() string {
	return encode(g.uuidv7())
}

// uuidv7 builds a 128-bit UUIDv7: 48 bits of millisecond timestamp,
// then random bits with the version and variant fields stamped in.
func (g *Generator) uuidv7() [16]byte {
	var u [16]byte

	now := time.Now().UnixMilli()
	u[0] = byte(now >> 40)
	u[1] = byte(now >> 32)
	u[2] = byte(now >> 24)
	u[3] = byte(now >> 16)
	u[4] = byte(now >> 8)
	u[5] = byte(now)

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			u[i] = byte(g.rand.Intn(256))
		}
	} else if _, err := rand.Read(u[6:]); err != nil {
		panic("handid: crypto/rand failed: " + err.Error())
	}

	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // variant 10

	return u
}

// encode writes 128 bits as 26 base32 characters. Two zero bits pad
// the front so the first character never exceeds '7'.
func encode(u [16]byte) string {
	var out [26]byte
	var acc uint64
	bits := 2
	j := 0
	for _, b := range u {
		acc = acc<<8 | uint64(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[j] = alphabet[(acc>>uint(bits))&0x1f]
			j++
		}
	}
	return string(out[:])
}

// Validate reports whether id is a well-formed hand ID.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand ID must be 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
