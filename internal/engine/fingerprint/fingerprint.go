// Package fingerprint computes the stable hashes used as cache keys and validity checks.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
)

// Type tags written before every value so that "1" and 1 never collide.
const (
	tagNil byte = iota + 1
	tagString
	tagBytes
	tagInt
	tagFloat
	tagBool
	tagList
	tagMap
	tagOther
)

// Builder accumulates fields into a single fingerprint.
// Fields are length-prefixed, so concatenation ambiguities cannot collide.
type Builder struct {
	h *xxhash.Digest
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{h: xxhash.New()}
}

// String adds a string field.
func (b *Builder) String(s string) *Builder {
	b.tag(tagString)
	b.length(len(s))
	_, _ = b.h.WriteString(s)
	return b
}

// Bytes adds a byte field.
func (b *Builder) Bytes(p []byte) *Builder {
	b.tag(tagBytes)
	b.length(len(p))
	_, _ = b.h.Write(p)
	return b
}

// Int adds an integer field.
func (b *Builder) Int(n int64) *Builder {
	b.tag(tagInt)
	_ = binary.Write(b.h, binary.LittleEndian, n)
	return b
}

// Bool adds a boolean field.
func (b *Builder) Bool(v bool) *Builder {
	b.tag(tagBool)
	if v {
		_, _ = b.h.Write([]byte{1})
	} else {
		_, _ = b.h.Write([]byte{0})
	}
	return b
}

// Fingerprint adds a previously computed fingerprint.
func (b *Builder) Fingerprint(f domain.Fingerprint) *Builder {
	return b.String(string(f))
}

// Strings adds an ordered list of strings.
func (b *Builder) Strings(ss []string) *Builder {
	b.tag(tagList)
	b.length(len(ss))
	for _, s := range ss {
		b.String(s)
	}
	return b
}

// Value adds an arbitrary option value. Maps are serialized in sorted key order.
func (b *Builder) Value(v any) *Builder {
	switch val := v.(type) {
	case nil:
		b.tag(tagNil)
	case string:
		b.String(val)
	case []byte:
		b.Bytes(val)
	case bool:
		b.Bool(val)
	case int:
		b.Int(int64(val))
	case int64:
		b.Int(val)
	case uint64:
		b.Int(int64(val)) //nolint:gosec // Only the bit pattern matters for hashing
	case float64:
		b.tag(tagFloat)
		_ = binary.Write(b.h, binary.LittleEndian, math.Float64bits(val))
	case []string:
		b.Strings(val)
	case []any:
		b.tag(tagList)
		b.length(len(val))
		for _, item := range val {
			b.Value(item)
		}
	case domain.Options:
		b.mapValue(val)
	case map[string]any:
		b.mapValue(val)
	default:
		b.tag(tagOther)
		b.String(fmt.Sprintf("%T:%v", val, val))
	}
	return b
}

// Sum returns the fingerprint of everything written so far.
func (b *Builder) Sum() domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", b.h.Sum64()))
}

func (b *Builder) mapValue(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	b.tag(tagMap)
	b.length(len(keys))
	for _, k := range keys {
		b.String(k)
		b.Value(m[k])
	}
}

func (b *Builder) tag(t byte) {
	_, _ = b.h.Write([]byte{t})
}

func (b *Builder) length(n int) {
	_ = binary.Write(b.h, binary.LittleEndian, uint32(n)) //nolint:gosec // Lengths fit in 32 bits
}

// Bytes returns the content fingerprint of p.
func Bytes(p []byte) domain.Fingerprint {
	return domain.Fingerprint(fmt.Sprintf("%016x", xxhash.Sum64(p)))
}

// Strings returns the fingerprint of an ordered list of strings.
func Strings(parts ...string) domain.Fingerprint {
	return New().Strings(parts).Sum()
}

// Value returns the fingerprint of an option value.
func Value(v any) domain.Fingerprint {
	return New().Value(v).Sum()
}
