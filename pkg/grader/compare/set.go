package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"gopkg.in/yaml.v3"
)

// KeyedValue is one key and its value in an unordered collection.
type KeyedValue struct {
	Key   string
	Value models.Value
}

// KeyedValues is an unordered key to value collection that remembers the
// order it was declared in, for stable feedback.
type KeyedValues []KeyedValue

// Lookup returns the value stored for key. Keys are compared after trimming.
func (kv KeyedValues) Lookup(key string) (models.Value, bool) {
	key = strings.TrimSpace(key)
	for _, e := range kv {
		if strings.TrimSpace(e.Key) == key {
			return e.Value, true
		}
	}
	return models.Value{}, false
}

// Keys returns the trimmed keys in declaration order.
func (kv KeyedValues) Keys() []string {
	out := make([]string, 0, len(kv))
	for _, e := range kv {
		out = append(out, strings.TrimSpace(e.Key))
	}
	return out
}

// UnmarshalYAML decodes a YAML mapping, keeping document order.
func (kv *KeyedValues) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of keys to values", node.Line)
	}
	out := make(KeyedValues, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		key := strings.TrimSpace(k.Value)
		if seen[key] {
			return fmt.Errorf("line %d: duplicate key %q", k.Line, key)
		}
		seen[key] = true
		var val models.Value
		if err := v.Decode(&val); err != nil {
			return err
		}
		out = append(out, KeyedValue{Key: key, Value: val})
	}
	*kv = out
	return nil
}

// Mismatch is an expected key present in the observed data with a wrong value.
type Mismatch struct {
	Key      string
	Expected models.Value
	Actual   models.Value
}

// SetScore is the outcome of comparing an observed collection with the expected one.
type SetScore struct {
	// Missing holds expected keys absent from the observed data, sorted.
	Missing []string
	// Extra holds observed keys that are not expected, sorted.
	Extra []string
	// Mismatches holds present keys whose value is outside tolerance, in expected order.
	Mismatches []Mismatch
	// Matched counts expected keys whose observed value is within tolerance.
	Matched int
	// Expected is the number of expected keys.
	Expected int
}

// Complete reports whether no key is missing and no key is extra.
func (s SetScore) Complete() bool {
	return len(s.Missing) == 0 && len(s.Extra) == 0
}

// Completeness returns full when the observed keys equal the expected keys and
// fallback otherwise.
func (s SetScore) Completeness(full, fallback float64) float64 {
	if s.Complete() {
		return full
	}
	return fallback
}

// Accuracy returns points scaled by the share of expected keys that matched.
func (s SetScore) Accuracy(points float64) float64 {
	if s.Expected == 0 {
		return 0
	}
	return points * float64(s.Matched) / float64(s.Expected)
}

// Set compares observed against expected. Observed keys that repeat keep the
// first value seen; blank keys are ignored.
func Set(expected, observed KeyedValues, tol float64, mode TextMode) SetScore {
	obs := make(map[string]models.Value, len(observed))
	for _, e := range observed {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			continue
		}
		if _, dup := obs[key]; !dup {
			obs[key] = e.Value
		}
	}

	score := SetScore{Expected: len(expected)}
	want := make(map[string]bool, len(expected))
	for _, e := range expected {
		key := strings.TrimSpace(e.Key)
		want[key] = true
		got, ok := obs[key]
		switch {
		case !ok:
			score.Missing = append(score.Missing, key)
		case Values(got, e.Value, tol, mode):
			score.Matched++
		default:
			score.Mismatches = append(score.Mismatches, Mismatch{Key: key, Expected: e.Value, Actual: got})
		}
	}
	for key := range obs {
		if !want[key] {
			score.Extra = append(score.Extra, key)
		}
	}
	sort.Strings(score.Missing)
	sort.Strings(score.Extra)
	return score
}
