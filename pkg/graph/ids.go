package graph

import "github.com/oklog/ulid/v2"

// IDGenerator produces a new identifier carrying the given prefix.
type IDGenerator func(prefix string) string

// ULIDGenerator returns prefix followed by a monotonic ULID.
func ULIDGenerator(prefix string) string {
	return prefix + ulid.Make().String()
}
