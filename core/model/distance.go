package model

import "fmt"

// DefaultDistanceBuckets is the distance scale used when none is configured.
var DefaultDistanceBuckets = []string{"D1", "D2", "D3", "D4"}

// DistanceScale is a closed, totally ordered set of distance buckets.
// A vehicle whose capability ranks at or above a bucket can serve it.
type DistanceScale struct {
	buckets []string
	rank    map[string]int
}

// NewDistanceScale builds a scale from buckets listed shortest first.
func NewDistanceScale(buckets ...string) (DistanceScale, error) {
	if len(buckets) == 0 {
		return DistanceScale{}, &SchemaError{Table: TableDistance, Reason: "scale is empty"}
	}
	s := DistanceScale{
		buckets: make([]string, len(buckets)),
		rank:    make(map[string]int, len(buckets)),
	}
	for i, b := range buckets {
		if b == "" {
			return DistanceScale{}, &SchemaError{Table: TableDistance, Reason: fmt.Sprintf("empty bucket at position %d", i)}
		}
		if _, dup := s.rank[b]; dup {
			return DistanceScale{}, &SchemaError{Table: TableDistance, Key: b, Reason: "duplicate bucket"}
		}
		s.buckets[i] = b
		s.rank[b] = i
	}
	return s, nil
}

// DefaultDistanceScale returns D1 < D2 < D3 < D4.
func DefaultDistanceScale() DistanceScale {
	s, _ := NewDistanceScale(DefaultDistanceBuckets...)
	return s
}

// Buckets returns the buckets in ascending order.
func (s DistanceScale) Buckets() []string {
	out := make([]string, len(s.buckets))
	copy(out, s.buckets)
	return out
}

// Len returns the number of buckets.
func (s DistanceScale) Len() int { return len(s.buckets) }

// Rank returns the position of b on the scale.
func (s DistanceScale) Rank(b string) (int, bool) {
	r, ok := s.rank[b]
	return r, ok
}

// Contains reports whether b belongs to the scale.
func (s DistanceScale) Contains(b string) bool {
	_, ok := s.rank[b]
	return ok
}

// Serves reports whether a vehicle with the given capability can cover
// demand in the target bucket. Unknown buckets never serve.
func (s DistanceScale) Serves(capability, target string) bool {
	c, ok := s.rank[capability]
	if !ok {
		return false
	}
	t, ok := s.rank[target]
	if !ok {
		return false
	}
	return c >= t
}
