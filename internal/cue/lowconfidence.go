package cue

import "captionsync/internal/textutil"

// Low-confidence detection thresholds. A track is only judged once enough
// recent cues exist to be meaningful.
const (
	lowConfidenceWindow     = 10
	lowConfidenceMinSample  = 6
	lowConfidenceAvgCutoff  = 0.5
	lowConfidencePunctRatio = 0.3
	lowConfidenceShortSpan  = 800
)

// DetectLowConfidence reports whether the most recent cues of a track look
// like unstable ASR output: consistently low confidence, rarely punctuated,
// and short. Callers use the flag to log an alert or prefer the DOM fallback.
func DetectLowConfidence(cues []Cue) bool {
	if len(cues) > lowConfidenceWindow {
		cues = cues[len(cues)-lowConfidenceWindow:]
	}
	if len(cues) < lowConfidenceMinSample {
		return false
	}

	var confidenceSum float64
	var spanSum int64
	punctuated := 0
	for _, c := range cues {
		confidenceSum += c.Confidence
		spanSum += c.DurationMs()
		if textutil.HasTerminalPunctuation(c.Text) {
			punctuated++
		}
	}
	n := float64(len(cues))
	avgConfidence := confidenceSum / n
	punctRatio := float64(punctuated) / n
	avgSpan := spanSum / int64(len(cues))

	if avgConfidence >= lowConfidenceAvgCutoff {
		return false
	}
	return punctRatio < lowConfidencePunctRatio || avgSpan < lowConfidenceShortSpan
}
