package service

import "sort"

// Fuzzy matching compatible with Python's difflib: similarity is
// 2*matches/(len(a)+len(b)) where matches are counted over the recursively
// longest matching blocks of the two strings.

// similarityRatio returns a value in [0, 1]; 1 means identical strings.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matches := matchingBlockSize(a, b, 0, len(a), 0, len(b))
	return 2 * float64(matches) / float64(len(a)+len(b))
}

// matchingBlockSize counts matched characters by finding the longest common
// block in the given ranges and recursing on both sides of it.
func matchingBlockSize(a, b string, aLo, aHi, bLo, bHi int) int {
	bestI, bestJ, bestSize := longestMatch(a, b, aLo, aHi, bLo, bHi)
	if bestSize == 0 {
		return 0
	}
	total := bestSize
	total += matchingBlockSize(a, b, aLo, bestI, bLo, bestJ)
	total += matchingBlockSize(a, b, bestI+bestSize, aHi, bestJ+bestSize, bHi)
	return total
}

func longestMatch(a, b string, aLo, aHi, bLo, bHi int) (int, int, int) {
	bestI, bestJ, bestSize := aLo, bLo, 0
	// lengths[j] holds the length of the match ending at a[i-1], b[j-1].
	lengths := make(map[int]int)
	for i := aLo; i < aHi; i++ {
		next := make(map[int]int)
		for j := bLo; j < bHi; j++ {
			if a[i] == b[j] {
				k := lengths[j-1] + 1
				next[j] = k
				if k > bestSize {
					bestI, bestJ, bestSize = i-k+1, j-k+1, k
				}
			}
		}
		lengths = next
	}
	return bestI, bestJ, bestSize
}

// closestMatch returns the candidate most similar to query at or above
// cutoff, preferring shorter candidates on ties so partial typing resolves
// to the most common name.
func closestMatch(query string, candidates []string, cutoff float64) (string, bool) {
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) < len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	best := ""
	bestScore := cutoff
	found := false
	for _, candidate := range sorted {
		score := similarityRatio(query, candidate)
		if score > bestScore || (!found && score == cutoff) {
			best = candidate
			bestScore = score
			found = true
		}
	}
	return best, found
}
