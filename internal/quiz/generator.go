package quiz

import (
	"fmt"
	"math/rand"
)

// SessionSize is the number of items in a freshly generated session.
const SessionSize = 20

// Sequence draws n kana from src in presentation order.
//
// When src fits in n, every element of src appears once in the first len(src)
// positions (in shuffled order) and the rest are random fill. Larger sources are
// sampled uniformly with no coverage guarantee. In both cases no two adjacent
// entries are equal unless src holds fewer than two distinct values.
func Sequence(src []string, n int, rng *rand.Rand) ([]string, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("generating sequence: %w", ErrInvalidInput)
	}
	if n < 0 {
		n = 0
	}

	avoidRepeats := distinct(src) > 1
	seq := make([]string, 0, max(n, len(src)))

	if len(src) <= n {
		seq = append(seq, src...)
		rng.Shuffle(len(seq), func(i, j int) {
			seq[i], seq[j] = seq[j], seq[i]
		})
		if avoidRepeats {
			spreadRepeats(seq)
		}
	}

	for len(seq) < n {
		seq = append(seq, draw(src, seq, avoidRepeats, rng))
	}

	return seq[:n], nil
}

// draw picks a random element of src, rejecting the last element of seq
// when avoidRepeats is set.
func draw(src, seq []string, avoidRepeats bool, rng *rand.Rand) string {
	for {
		k := src[rng.Intn(len(src))]
		if !avoidRepeats || len(seq) == 0 || k != seq[len(seq)-1] {
			return k
		}
	}
}

// spreadRepeats breaks up equal neighbours left by shuffling a source that
// holds duplicates, by swapping the repeat with an element that fits in its
// place. A source dominated by one value can still leave repeats.
func spreadRepeats(seq []string) {
	for i := 1; i < len(seq); i++ {
		if seq[i] != seq[i-1] {
			continue
		}
		for j := range seq {
			if j == i || seq[j] == seq[i] {
				continue
			}
			seq[i], seq[j] = seq[j], seq[i]
			if isolated(seq, i) && isolated(seq, j) {
				break
			}
			seq[i], seq[j] = seq[j], seq[i]
		}
	}
}

// isolated reports whether seq[i] differs from both neighbours.
func isolated(seq []string, i int) bool {
	if i > 0 && seq[i] == seq[i-1] {
		return false
	}
	if i+1 < len(seq) && seq[i] == seq[i+1] {
		return false
	}
	return true
}

func distinct(src []string) int {
	seen := make(map[string]struct{}, len(src))
	for _, s := range src {
		seen[s] = struct{}{}
	}
	return len(seen)
}
