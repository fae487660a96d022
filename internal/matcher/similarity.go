package matcher

import "strings"

// Similarity computes a case-insensitive edit-similarity ratio in
// [0, 1] between two strings: twice the total length of the longest
// common matching blocks divided by the combined length. Identical
// strings (ignoring case) score 1.0; strings with no aligned
// characters score 0.0. The measure is symmetric up to case folding.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	length := len(ra) + len(rb)
	if length == 0 {
		return 1.0
	}

	b2j := make(map[rune][]int, len(rb))
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	matched := matchingSize(ra, rb, 0, len(ra), 0, len(rb), b2j)
	return 2.0 * float64(matched) / float64(length)
}

// matchingSize sums the lengths of the matching blocks found by
// recursively locating the longest match and descending into the
// regions to its left and right.
func matchingSize(a, b []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) int {
	i, j, size := longestMatch(a, alo, ahi, blo, bhi, b2j)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingSize(a, b, alo, i, blo, j, b2j)
	total += matchingSize(a, b, i+size, ahi, j+size, bhi, b2j)
	return total
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] with
// alo <= i < i+size <= ahi and blo <= j < j+size <= bhi, preferring
// the earliest block on ties.
func longestMatch(a []rune, alo, ahi, blo, bhi int, b2j map[rune][]int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] holds the length of the match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return besti, bestj, bestsize
}
