package fuzzy

import "strings"

// LevenshteinDistance calculates the edit distance between two strings:
// the number of single-character insertions, deletions or substitutions
// required to turn one into the other.
func LevenshteinDistance(s1, s2 string) int {
	s1 = normalize(s1)
	s2 = normalize(s2)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
	}
	for i := 0; i <= m; i++ {
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			d[i][j] = min3(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[m][n]
}

// RelevanceScore scores how relevant an email is to a query, searching the
// subject and sender fields. Higher is more relevant. Exact substring hits
// dominate; per-word fuzzy and prefix matches contribute less.
func RelevanceScore(query, subject, sender string) float64 {
	query = normalize(query)
	score := 0.0

	subjectNorm := normalize(subject)
	if strings.Contains(subjectNorm, query) {
		score += 100.0
		if containsWord(subjectNorm, query) {
			score += 50.0
		}
	} else {
		for _, word := range strings.Fields(subjectNorm) {
			if dist := LevenshteinDistance(query, word); dist <= 2 {
				score += 50.0 - float64(dist)*15
			}
			if strings.HasPrefix(word, query) {
				score += 40.0
			}
		}
	}

	senderNorm := normalize(sender)
	if strings.Contains(senderNorm, query) {
		score += 80.0
		if containsWord(senderNorm, query) {
			score += 30.0
		}
	} else {
		for _, word := range strings.Fields(senderNorm) {
			if dist := LevenshteinDistance(query, word); dist <= 2 {
				score += 40.0 - float64(dist)*12
			}
			if strings.HasPrefix(word, query) {
				score += 35.0
			}
		}
		// Email local part often carries the meaningful name.
		localPart := senderNorm
		if idx := strings.Index(senderNorm, "@"); idx > 0 {
			localPart = senderNorm[:idx]
		}
		if strings.HasPrefix(localPart, query) {
			score += 30.0
		}
	}

	return score
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// normalize lowercases and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func containsWord(text, query string) bool {
	for _, word := range strings.Fields(text) {
		if word == query {
			return true
		}
	}
	return false
}
