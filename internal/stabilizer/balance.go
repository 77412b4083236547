package stabilizer

import (
	"captionsync/internal/language"
	"captionsync/internal/textutil"
	"captionsync/internal/timedtext"
)

// balance recursively re-splits any group whose word count exceeds the
// per-language maximum, tightening the interval threshold on every level so
// the recursion always terminates. Depth is capped defensively; pathological
// all-single-character input could otherwise recurse far.
func (b *Builder) balance(groups []group, p language.Profile) []group {
	out := make([]group, 0, len(groups))
	for _, g := range groups {
		out = append(out, b.balanceGroup(g, p, int64(p.MinIntervalMs), 0)...)
	}
	return coalesceSingles(out)
}

func (b *Builder) balanceGroup(g group, p language.Profile, intervalMs int64, depth int) []group {
	if g.wordCount(p) <= p.MaxWords || len(g.tokens) < 2 || depth >= b.cfg.MaxBalanceDepth {
		return []group{g}
	}

	// Split at the widest internal gap not below the tightened threshold;
	// when no gap qualifies, split at the word-count midpoint.
	splitIdx := widestGapIndex(g.tokens, intervalMs)
	if splitIdx <= 0 {
		splitIdx = midpointIndex(g.tokens, p)
	}
	if splitIdx <= 0 || splitIdx >= len(g.tokens) {
		return []group{g}
	}

	left := group{tokens: g.tokens[:splitIdx], explicitBreak: g.explicitBreak}
	right := group{tokens: g.tokens[splitIdx:]}

	tightened := intervalMs * 3 / 4
	if tightened < 1 {
		tightened = 1
	}
	result := b.balanceGroup(left, p, tightened, depth+1)
	return append(result, b.balanceGroup(right, p, tightened, depth+1)...)
}

// widestGapIndex returns the index of the token opening the widest
// inter-token gap of at least intervalMs, or 0 when none qualifies.
func widestGapIndex(tokens []timedtext.TimedToken, intervalMs int64) int {
	best := 0
	var bestGap int64
	for i := 1; i < len(tokens); i++ {
		prev := tokens[i-1]
		from := prev.StartMs
		if prev.EndMs > 0 {
			from = prev.EndMs
		}
		gap := tokens[i].StartMs - from
		if gap >= intervalMs && gap > bestGap {
			best = i
			bestGap = gap
		}
	}
	return best
}

// midpointIndex finds the token index closest to half the group's words.
func midpointIndex(tokens []timedtext.TimedToken, p language.Profile) int {
	total := 0
	for _, tok := range tokens {
		total += tokenWords(tok.Text, p)
	}
	half := total / 2
	acc := 0
	for i, tok := range tokens {
		acc += tokenWords(tok.Text, p)
		if acc >= half {
			if i+1 < len(tokens) {
				return i + 1
			}
			return i
		}
	}
	return 0
}

// coalesceSingles merges runs of consecutive single-token groups left behind
// by aggressive splitting.
func coalesceSingles(groups []group) []group {
	if len(groups) < 2 {
		return groups
	}
	out := make([]group, 0, len(groups))
	for _, g := range groups {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			if len(prev.tokens) == 1 && len(g.tokens) == 1 && !g.explicitBreak &&
				!textutil.HasTerminalPunctuation(prev.tokens[0].Text) {
				prev.tokens = append(prev.tokens, g.tokens...)
				continue
			}
		}
		out = append(out, g)
	}
	return out
}
