package textutil

// TokenOverlap computes a Jaccard-style similarity between two texts based on
// their token sets. Returns 0 when either side has no tokens.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
