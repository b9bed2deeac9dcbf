package render

import (
	"math/rand"
	"strings"
)

// wordPlacement is one word of a dynamic_text scene: its own time slot,
// a jittered size and a random position inside the safe margins.
type wordPlacement struct {
	Text  string
	Size  int
	X, Y  int
	Start float64
	End   float64
}

const (
	wordBaseSize   = 60
	wordFadeSec    = 0.2
	safeMarginX    = 100
	safeMarginXEnd = 200
	safeMarginY    = 200
)

// layoutWords staggers the words of a scene evenly across its duration.
// Each word stays on screen for 1.5x its slot so consecutive words
// overlap, and sizes/positions jitter from the given seed so test runs are
// reproducible.
func layoutWords(text string, duration float64, width, height int, seed int64) []wordPlacement {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	slot := duration / float64(len(words))

	placements := make([]wordPlacement, 0, len(words))
	for i, word := range words {
		start := float64(i) * slot
		end := start + slot*1.5
		if end > duration {
			end = duration
		}
		placements = append(placements, wordPlacement{
			Text:  word,
			Size:  wordBaseSize - 10 + rng.Intn(31), // base -10..+20
			X:     safeMarginX + rng.Intn(width-safeMarginX-safeMarginXEnd),
			Y:     safeMarginY + rng.Intn(height-2*safeMarginY),
			Start: start,
			End:   end,
		})
	}
	return placements
}
