package analyzer

import "sort"

// maxSuggestDistance is the edit-distance cutoff for "did you mean"
// suggestions among in-scope symbols (§4.3).
const maxSuggestDistance = 2

// damerauLevenshtein computes the optimal-string-alignment Damerau-Levenshtein
// distance between a and b: like plain Levenshtein (insert/delete/substitute)
// but also counting an adjacent transposition as a single edit, grounded on
// the edit-distance matrix the pack's fuzzy-matching resolver builds for
// identifier suggestions, generalized to count transpositions.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := min3(del, ins, sub)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := d[i-2][j-2] + 1; t < best {
					best = t
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// suggest returns the closest candidate to name within maxSuggestDistance
// edits, or "", false if none qualifies. Ties break alphabetically for
// deterministic diagnostics.
func suggest(name string, candidates []string) (string, bool) {
	type scored struct {
		name string
		dist int
	}
	var best []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		dist := damerauLevenshtein(name, c)
		if dist <= maxSuggestDistance {
			best = append(best, scored{c, dist})
		}
	}
	if len(best) == 0 {
		return "", false
	}
	sort.Slice(best, func(i, j int) bool {
		if best[i].dist != best[j].dist {
			return best[i].dist < best[j].dist
		}
		return best[i].name < best[j].name
	})
	return best[0].name, true
}
