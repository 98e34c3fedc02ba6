package collection

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Idx is a dense internal index, monotonic with insertion order. It is
// never reused within a process lifetime; a deleted slot stays tombstoned
// and keeps its index.
type Idx int

// ExternalId is a tagged variant of either a UUID-form string or an
// unsigned integer. The two spaces never collide: equality and hashing
// are by variant tag and value.
type ExternalId struct {
	isStr bool
	str   string
	num   uint64
}

// NewStringID builds a string-form ExternalId. s must parse as a
// canonical UUID, per the engine's id-validation contract.
func NewStringID(s string) (ExternalId, error) {
	if _, err := uuid.Parse(s); err != nil {
		return ExternalId{}, NewCollectionError("NewStringID", fmt.Errorf("%w: %q is not a valid UUID", ErrInvalidArgument, s))
	}
	return ExternalId{isStr: true, str: s}, nil
}

// NewNumID builds an unsigned-integer-form ExternalId.
func NewNumID(n uint64) ExternalId {
	return ExternalId{num: n}
}

// IsString reports whether the id is the string (UUID) variant.
func (e ExternalId) IsString() bool { return e.isStr }

// String returns the UUID string for string-form ids and the decimal form
// of the number for integer-form ids.
func (e ExternalId) String() string {
	if e.isStr {
		return e.str
	}
	return strconv.FormatUint(e.num, 10)
}

// Uint returns the integer-form value; valid only when IsString() is false.
func (e ExternalId) Uint() uint64 { return e.num }

// UniversalKey returns the (string, uint) ordering key from §4.A: all
// integer ids precede all non-empty string ids; integers sort numerically,
// strings sort lexicographically.
func (e ExternalId) UniversalKey() (string, uint64) {
	if e.isStr {
		return e.str, 0
	}
	return "", e.num
}

// Less reports whether e sorts before o under UniversalKey order.
func (e ExternalId) Less(o ExternalId) bool {
	es, en := e.UniversalKey()
	os, on := o.UniversalKey()
	if es != os {
		return es < os
	}
	return en < on
}

// Equal reports intra-variant equality; the string and integer spaces
// never compare equal to one another.
func (e ExternalId) Equal(o ExternalId) bool {
	return e.isStr == o.isStr && e.str == o.str && e.num == o.num
}

// Payload is a mapping from string keys to arbitrary JSON-like values.
type Payload map[string]any

// Clone returns a shallow copy of p (nil-safe; returns an empty, non-nil
// map so a previously-null payload always reads back as empty, per §3).
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DefaultVectorName is the name of the unnamed/default vector ("").
const DefaultVectorName = ""

// Distance identifies a distance metric recognised by the distance kernel.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceDot    Distance = "Dot"
	DistanceEuclid Distance = "Euclid"
)

// VectorParams is the immutable-after-creation configuration of one named
// vector: its dimensionality and distance metric.
type VectorParams struct {
	Size     int
	Distance Distance
}

// CollectionConfig configures a Collection at construction time.
type CollectionConfig struct {
	// Vectors maps vector name to its params. Only this map form exists;
	// there is no separate single-VectorParams field, so a collection with
	// one unnamed vector is configured as {"": params}.
	Vectors map[string]VectorParams

	// Location enables the persistence adapter when non-empty; empty
	// means memory-only (no adapter, writes bypass persistence).
	Location string

	// Pass-through bookkeeping fields, preserved verbatim for Info() but
	// not acted upon.
	ShardNumber            int
	ReplicationFactor      int
	WriteConsistencyFactor int
	OnDiskPayload          bool
}

// Point is the full reconstructed record of one stored item: external id,
// one vector per configured name, and a payload.
type Point struct {
	ID      ExternalId
	Payload Payload
	Vectors map[string][]float32
}

// ScoredPoint is one search/recommend result.
type ScoredPoint struct {
	ID      ExternalId
	Score   float32
	Payload Payload
	Vectors any // nil, map[string][]float32, or []float32 (unwrapped default)
}

// Record is one retrieve/scroll result; same shape as ScoredPoint minus
// the score.
type Record struct {
	ID      ExternalId
	Payload Payload
	Vectors any
}
