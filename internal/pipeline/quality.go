package pipeline

import (
	"bytes"
	"image"

	// Container sniffing for the payload formats providers actually return.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Score thresholds for candidate acceptance. The validator is deliberately
// conservative and cheap: payload size correlates with rendered detail well
// enough here, and the locked prompt templates do the real quality work.
const (
	// ScoreAccept ends a scene's cascade immediately.
	ScoreAccept = 70
	// ScoreMinUsable is the floor below which the next model variant is tried.
	ScoreMinUsable = 50

	baselineScore     = 60
	smallPayloadScore = 35

	minValidPayload = 5 * 1024
	smallPayload    = 20 * 1024
)

// ScoreCandidate grades a raw candidate payload. Zero means reject: the
// payload is symptomatic of a failed or empty generation, or is not a
// recognizable image container.
func ScoreCandidate(data []byte) int {
	if len(data) < minValidPayload {
		return 0
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return 0
	}
	if len(data) < smallPayload {
		return smallPayloadScore
	}
	score := baselineScore + len(data)/4096
	if score > 100 {
		score = 100
	}
	return score
}
