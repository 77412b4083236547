package stabilizer

import (
	"captionsync/internal/language"
	"captionsync/internal/textutil"
)

// mergeBoundaries joins adjacent groups split mid-phrase: the gap is short
// and either the trailing group starts with a continuation word or the
// leading group ends with one. Bounded by the merged word-count cap.
func (b *Builder) mergeBoundaries(groups []group, p language.Profile) []group {
	if len(groups) < 2 {
		return groups
	}
	out := make([]group, 0, len(groups))
	out = append(out, groups[0])
	for i := 1; i < len(groups); i++ {
		g := groups[i]
		prev := &out[len(out)-1]

		gap := gapBetween(*prev, g)
		joinable := gap >= 0 && gap <= int64(p.MinIntervalMs)/2 &&
			(p.IsBoundaryWord(g.tokens[0].Text) || p.IsBoundaryWord(prev.lastToken().Text)) &&
			!textutil.HasTerminalPunctuation(prev.lastToken().Text) &&
			prev.wordCount(p)+g.wordCount(p) <= p.MaxMergedWords

		if joinable {
			prev.tokens = append(prev.tokens, g.tokens...)
			continue
		}
		out = append(out, g)
	}
	return out
}

// absorbShortTails repeatedly folds trailing groups shorter than the minimum
// word length into their predecessor while the combined gap and size stay
// within bounds. Groups opened by an explicit break word are left alone.
func (b *Builder) absorbShortTails(groups []group, p language.Profile) []group {
	for len(groups) >= 2 {
		last := groups[len(groups)-1]
		prev := groups[len(groups)-2]

		if last.explicitBreak || last.wordCount(p) >= p.MinTailWords {
			break
		}
		gap := gapBetween(prev, last)
		if gap < 0 || gap > int64(p.MinIntervalMs) {
			break
		}
		if prev.wordCount(p)+last.wordCount(p) > p.MaxMergedWords {
			break
		}
		if textutil.HasTerminalPunctuation(prev.lastToken().Text) {
			break
		}

		prev.tokens = append(prev.tokens, last.tokens...)
		groups = groups[:len(groups)-1]
		groups[len(groups)-1] = prev
	}
	return groups
}

// gapBetween measures the silence between the end of a and the start of b.
func gapBetween(a, b group) int64 {
	from := a.lastToken().StartMs
	if end := a.lastToken().EndMs; end > 0 {
		from = end
	}
	return b.startMs() - from
}
