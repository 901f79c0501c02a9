package similarity

// Ratio returns 2*LCS(a, b) / (len(a)+len(b)), the share of units the two
// sequences have in common subsequence. It is symmetric, equals 1.0 exactly
// when the sequences are identical and 0.0 when they share nothing.
// Two empty sequences are identical.
func Ratio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	lcs := lcsLength(a, b)
	return 2.0 * float64(lcs) / float64(len(a)+len(b))
}

// lcsLength computes the longest common subsequence length. Common prefix and
// suffix are stripped first; the rest uses a two-row DP over interned units.
func lcsLength(a, b []string) int {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	a, b = a[prefix:], b[prefix:]

	suffix := 0
	for suffix < len(a) && suffix < len(b) && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	a, b = a[:len(a)-suffix], b[:len(b)-suffix]

	if len(a) == 0 || len(b) == 0 {
		return prefix + suffix
	}

	ia, ib := intern(a, b)
	// keep the DP row on the shorter side
	if len(ia) > len(ib) {
		ia, ib = ib, ia
	}
	m := len(ia)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for _, y := range ib {
		for i := 1; i <= m; i++ {
			if ia[i-1] == y {
				curr[i] = prev[i-1] + 1
			} else if curr[i-1] > prev[i] {
				curr[i] = curr[i-1]
			} else {
				curr[i] = prev[i]
			}
		}
		prev, curr = curr, prev
	}
	return prefix + suffix + prev[m]
}

// intern maps equal units to equal ints so the DP compares integers.
func intern(a, b []string) ([]int, []int) {
	ids := make(map[string]int, len(a)+len(b))
	conv := func(units []string) []int {
		out := make([]int, len(units))
		for i, u := range units {
			id, ok := ids[u]
			if !ok {
				id = len(ids)
				ids[u] = id
			}
			out[i] = id
		}
		return out
	}
	return conv(a), conv(b)
}
