// Package hashing implements the canonical input hasher: a deterministic
// SHA-256 over a key-sorted JSON-equivalent serialization of any value, used
// to populate a DecisionEvent's inputs_hash.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// HashingFailed wraps a serialization error encountered while canonicalizing
// a value for hashing. It is the only error this package ever returns.
type HashingFailed struct {
	Err error
}

func (e *HashingFailed) Error() string { return fmt.Sprintf("hashing failed: %v", e.Err) }
func (e *HashingFailed) Unwrap() error { return e.Err }

// Options configures which fields are excluded from the canonicalized value
// before hashing.
type Options struct {
	// ExcludeFields lists bare field names to drop from any object
	// encountered at any depth. Dotted paths are not resolved; a name only
	// matches an object key spelled exactly the same. DefaultOptions
	// excludes {metadata, attributes, events}; callers may extend it.
	ExcludeFields []string
}

// DefaultOptions excludes the fields the spec names as noisy/non-semantic:
// metadata, attributes, events.
func DefaultOptions() Options {
	return Options{ExcludeFields: []string{"metadata", "attributes", "events"}}
}

// Hash produces a 64-hex-char SHA-256 digest of value under the canonical
// serialization: object keys sorted ascending, arrays left in original
// order, numbers and strings serialized via encoding/json (which already
// normalizes to a locale-independent decimal form and UTF-8).
func Hash(value any, opts Options) (string, error) {
	canon, err := canonicalize(value, opts)
	if err != nil {
		return "", &HashingFailed{Err: err}
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// HashMany hashes each value individually, then hashes the concatenation of
// those individual hex digests (in the given order). Order is significant:
// HashMany(a, b) != HashMany(b, a) in general.
func HashMany(values []any, opts Options) (string, error) {
	concatenated := make([]byte, 0, len(values)*64)
	for i, v := range values {
		h, err := Hash(v, opts)
		if err != nil {
			return "", fmt.Errorf("hash_many: item %d: %w", i, err)
		}
		concatenated = append(concatenated, h...)
	}
	sum := sha256.Sum256(concatenated)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalize round-trips value through encoding/json into a generic tree
// (map[string]any / []any / scalars), strips excluded fields, then
// re-marshals with object keys sorted. Two Go values that are JSON-equal
// after this pipeline — regardless of struct field order, map iteration
// order, or top-level key order — hash identically.
func canonicalize(value any, opts Options) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(opts.ExcludeFields))
	for _, f := range opts.ExcludeFields {
		excluded[f] = struct{}{}
	}

	pruned := prune(tree, excluded)
	return marshalSorted(pruned)
}

// prune recursively removes excluded object keys at every depth.
func prune(node any, excluded map[string]struct{}) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			if _, skip := excluded[k]; skip {
				continue
			}
			out[k] = prune(val, excluded)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = prune(val, excluded)
		}
		return out
	default:
		return v
	}
}

// marshalSorted serializes node to JSON bytes with every object's keys
// emitted in ascending sorted order and arrays left in original order.
func marshalSorted(node any) ([]byte, error) {
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf := []byte{'{'}
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := marshalSorted(v[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil

	case []any:
		buf := []byte{'['}
		for i, item := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			ib, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ib...)
		}
		buf = append(buf, ']')
		return buf, nil

	default:
		return json.Marshal(v)
	}
}
