package core

import "math"

// ScoreWeights are the coefficients of the score formula.
type ScoreWeights struct {
	Distance  float64 // Points per unit of distance
	NearMiss  float64 // Points per near miss
	BestCombo float64 // Points per combo level reached
}

// DefaultScoreWeights returns the standard weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Distance:  1,
		NearMiss:  25,
		BestCombo: 50,
	}
}

// Score derives the run score from its final statistics.
// It is never accumulated during play, only computed.
func Score(distance float64, nearMisses, bestCombo int, w ScoreWeights) int {
	total := distance*w.Distance + float64(nearMisses)*w.NearMiss + float64(bestCombo)*w.BestCombo
	if total < 0 || math.IsNaN(total) {
		return 0
	}
	return int(math.Floor(total))
}
