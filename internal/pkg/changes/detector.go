// Package changes computes the minimal set of field changes between two versions of a record.
package changes

import "github.com/google/go-cmp/cmp"

// Detector compares an original field set with a candidate one.
type Detector interface {
	// Diffs returns the keys present in both maps whose values differ,
	// mapped to the value from actual.
	Diffs(original, actual map[string]any) map[string]any
}

// StrictDetector treats two values as equal only when they share the same dynamic
// type and value. No coercion is applied: int64(1) and "1" differ. Values with an
// Equal method (time.Time) are compared through it.
type StrictDetector struct{}

// NewStrictDetector returns the default Detector.
func NewStrictDetector() StrictDetector {
	return StrictDetector{}
}

// Diffs implements Detector. Keys missing from either side are ignored.
// The result is never nil.
func (StrictDetector) Diffs(original, actual map[string]any) map[string]any {
	out := make(map[string]any)
	for key, next := range actual {
		prev, ok := original[key]
		if !ok {
			continue
		}
		if !Equal(prev, next) {
			out[key] = next
		}
	}
	return out
}

// Equal reports strict equality of two field values.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return cmp.Equal(a, b)
}
