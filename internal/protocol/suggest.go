package protocol

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Suggest returns up to n candidates close to an unknown id, best first.
// Matching ignores case; a prefix of at least two letters always matches.
func Suggest(input string, candidates []string, n int) []string {
	token := strings.ToLower(strings.TrimSpace(input))
	if token == "" || n <= 0 {
		return nil
	}
	type scored struct {
		val  string
		dist int
	}
	var results []scored
	for _, cand := range candidates {
		lc := strings.ToLower(cand)
		switch {
		case lc == token:
			return []string{cand}
		case len(token) >= 2 && strings.HasPrefix(lc, token):
			results = append(results, scored{cand, 0})
		default:
			d := levenshtein.ComputeDistance(token, lc)
			if d > suggestLimit(len(lc)) {
				continue
			}
			results = append(results, scored{cand, d})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})
	out := make([]string, 0, min(n, len(results)))
	for _, r := range results {
		if len(out) == n {
			break
		}
		out = append(out, r.val)
	}
	return out
}
