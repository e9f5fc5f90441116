package matcher

// EditDistance computes the Levenshtein distance between two strings.
// It represents the minimum number of single-character edits (insertions, deletions, or substitutions)
// required to change one string into the other.
// Characters are compared as runes so multi-byte letters count as one edit.
func EditDistance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// matrix[i][j] is the distance between the first j runes of a
	// and the first i runes of b.
	matrix := make([][]int, lenB+1)
	for i := range matrix {
		matrix[i] = make([]int, lenA+1)
	}

	for i := 0; i <= lenB; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= lenA; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenB; i++ {
		for j := 1; j <= lenA; j++ {
			cost := 0
			if runesB[i-1] != runesA[j-1] {
				cost = 1
			}

			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min(deletion, insertion, substitution)
		}
	}

	return matrix[lenB][lenA]
}

// Similarity returns 1 - EditDistance(a, b) / max(len(a), len(b)), a ratio in [0, 1].
// Two empty strings are fully similar; an empty and a non-empty string score 0.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}
	return 1 - float64(EditDistance(a, b))/float64(longest)
}
