package captions

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Speaking-rate constants for estimated caption timing. Downstream sync logic
// is tuned to this granularity (a few hundred ms of drift per sentence), so
// the heuristic must not be changed without retuning the synchronizer.
const (
	wordBaseSeconds     = 0.25 // average base time per word
	wordPerCharSeconds  = 0.03 // additional time per character
	sentencePauseSec    = 0.3  // pause appended after each sentence
	fallbackWordsPerSec = 3.0  // assumed speaking rate when no duration is known
)

// sentenceRe matches runs of text ending in terminal punctuation, used by the
// proportional estimator.
var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// wordDuration estimates how long one word takes to speak. Shorter words are
// spoken more quickly, longer words more slowly.
func wordDuration(word string) float64 {
	return wordBaseSeconds + float64(utf8.RuneCountInString(word))*wordPerCharSeconds
}

// splitSentences splits text at terminal punctuation (. ? !) followed by an
// uppercase letter. If no such boundary exists the whole input is one sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '?' && r != '!' {
			continue
		}

		// Look past whitespace for an uppercase letter.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < len(runes) && unicode.IsUpper(runes[j]) {
			sentences = append(sentences, string(runes[start:i+1]))
			start = j
			i = j - 1
		}
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// Estimate derives caption segments purely from text using the per-word
// speaking-rate heuristic. Segments are contiguous: each starts where the
// previous ended, beginning at zero. Empty or whitespace-only input yields nil.
func Estimate(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var segments []Segment
	currentTime := 0.0

	for _, sentence := range splitSentences(text) {
		segmentText := strings.TrimSpace(sentence)
		if segmentText == "" {
			continue
		}

		duration := 0.0
		for _, word := range strings.Fields(segmentText) {
			duration += wordDuration(word)
		}
		duration += sentencePauseSec

		segments = append(segments, Segment{
			Text:      segmentText,
			StartTime: currentTime,
			EndTime:   currentTime + duration,
		})
		currentTime += duration
	}

	return segments
}

// EstimateProportional derives caption segments from text against a known (or
// estimated) total audio duration, allocating each sentence a share of the
// duration proportional to its character count. When totalDuration is zero or
// negative, a duration is derived from the word count at an assumed speaking
// rate of three words per second.
func EstimateProportional(text string, totalDuration float64) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if totalDuration <= 0 {
		wordCount := len(strings.Fields(text))
		totalDuration = float64(wordCount) / fallbackWordsPerSec
	}

	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	totalChars := 0
	trimmed := make([]string, 0, len(sentences))
	for _, s := range sentences {
		t := strings.TrimSpace(s)
		trimmed = append(trimmed, t)
		totalChars += utf8.RuneCountInString(t)
	}
	if totalChars == 0 {
		return nil
	}

	var segments []Segment
	currentTime := 0.0

	for _, t := range trimmed {
		if t == "" {
			continue
		}
		proportion := float64(utf8.RuneCountInString(t)) / float64(totalChars)
		duration := totalDuration * proportion

		segments = append(segments, Segment{
			Text:      t,
			StartTime: currentTime,
			EndTime:   currentTime + duration,
		})
		currentTime += duration
	}

	return segments
}
