package matching

import "strings"

// Pair is one correlated result of Join.
type Pair struct {
	Left  Match
	Right Match
}

// Join correlates left and right on the given labels. A left and a right
// match pair up when both carry every label in on and the values are equal
// under mode. Pairs follow left order, then right order; a left match with
// several partners yields one pair per partner. Matches missing any join
// label never pair.
func Join(left, right []Match, mode Normalization, on ...string) []Pair {
	if len(on) == 0 {
		return nil
	}

	index := make(map[string][]int, len(right))
	for i, m := range right {
		if key, ok := joinKey(m, mode, on); ok {
			index[key] = append(index[key], i)
		}
	}

	var pairs []Pair
	for _, l := range left {
		key, ok := joinKey(l, mode, on)
		if !ok {
			continue
		}
		for _, i := range index[key] {
			pairs = append(pairs, Pair{Left: l, Right: right[i]})
		}
	}
	return pairs
}

func joinKey(m Match, mode Normalization, on []string) (string, bool) {
	parts := make([]string, len(on))
	for i, label := range on {
		v, ok := m.Sample.Labels[label]
		if !ok {
			return "", false
		}
		parts[i] = mode.Normalize(v)
	}
	return strings.Join(parts, "\x00"), true
}
