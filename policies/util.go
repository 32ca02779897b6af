package policies

import "math"

// softmax turns logits into sampling weights, shifted by the largest logit to
// keep exp in range.
func softmax(logits []float64, temperature float64) []float64 {
	largest := logits[0]
	for _, v := range logits {
		if v > largest {
			largest = v
		}
	}
	sum := 0.0
	weights := make([]float64, len(logits))
	for i, v := range logits {
		weights[i] = math.Exp((v - largest) / temperature)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = weights[i] / sum
	}
	return weights
}

// argmax returns the first index holding the largest value.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
