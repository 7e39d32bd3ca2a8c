// Package ids provides stable, deterministic identifiers for tournament
// entities. IDs are 128-bit and share the on-the-wire layout of
// github.com/google/uuid.UUID, but unlike that package they are never drawn
// from the OS random source: two replicas that start from the same
// tournament salt and apply the same action sequence derive byte-identical
// IDs for every entity they create.
package ids

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"github.com/google/uuid"
)

// ID is an opaque 128-bit identifier for a player, category, match, tatami,
// or position. The zero value is the nil ID and never identifies a real
// entity.
type ID = uuid.UUID

// Nil is the identifier that never refers to a real entity.
var Nil = uuid.Nil

// Kind distinguishes the entity namespace an ID belongs to. Mixing kinds
// into the seed keeps a player and a match created from the same draw from
// colliding even if both draws happen to consume the same PRNG position.
type Kind string

const (
	KindPlayer   Kind = "player"
	KindCategory Kind = "category"
	KindMatch    Kind = "match"
	KindTatami   Kind = "tatami"
	KindPosition Kind = "position"
)

// Generator deterministically mints IDs. Given the same salt, kind, and
// sequence of Next calls, two Generators produce an identical sequence of
// IDs — this is what lets a participant reproduce IDs the master minted
// without the master having to transmit them out of band.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a Generator from a tournament salt and an entity kind.
// The seed is derived with sha256 rather than a simple sum so that salts
// differing by a single bit still produce unrelated PRNG sequences; this is
// a pure, tiny, non-domain utility, not a cryptographic guarantee.
func NewGenerator(salt string, kind Kind) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed(salt, kind)))}
}

// NewGeneratorFromSeed builds a Generator directly from an explicit seed,
// used when an action needs to re-derive the exact same generator state it
// used on first apply (e.g. draw systems replaying their own shuffle).
func NewGeneratorFromSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func seed(salt string, kind Kind) int64 {
	h := sha256.Sum256([]byte(salt + "|" + string(kind)))
	return int64(binary.LittleEndian.Uint64(h[:8]))
}

// Next mints the next ID in the deterministic sequence.
func (g *Generator) Next() ID {
	var b [16]byte
	for i := 0; i < 16; i += 8 {
		binary.LittleEndian.PutUint64(b[i:i+8], g.rng.Uint64())
	}
	id, _ := uuid.FromBytes(b[:])
	// Mark as version 4 / variant RFC4122 purely so stringified IDs look
	// like ordinary UUIDs to tooling; this has no bearing on determinism.
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

// Seed returns an int64 in [0, 1<<62) drawn from the generator, suitable for
// seeding a further PRNG (e.g. a draw system's shuffle) in a way that is
// itself reproducible from the generator's own state.
func (g *Generator) Seed() int64 {
	return int64(g.rng.Uint64() & ((1 << 62) - 1))
}
