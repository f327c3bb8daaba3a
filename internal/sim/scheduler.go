package sim

import "math"

// minMoveThreshold keeps the threshold positive on degenerate cell sizes.
const minMoveThreshold = 1e-4

// maxSubsteps caps the count returned for absurd inputs so it fits an int.
const maxSubsteps = math.MaxInt32

// MoveThreshold is the largest displacement allowed per sub-step: half the
// smaller cell dimension.
func MoveThreshold(cellW, cellH float64) float64 {
	return math.Max(minMoveThreshold, 0.5*math.Min(cellW, cellH))
}

// SubstepCount splits a frame into enough sub-steps that maxSpeed*dt never
// exceeds MoveThreshold. The result is at least 1.
func SubstepCount(frameSeconds, maxSpeed, cellW, cellH float64) int {
	travel := maxSpeed * frameSeconds
	if !(travel > 0) {
		return 1
	}
	n := math.Ceil(travel / MoveThreshold(cellW, cellH))
	if n > maxSubsteps {
		return maxSubsteps
	}
	return max(1, int(n))
}
