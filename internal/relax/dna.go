package relax

import "math"

// B-DNA model used to size and place helices.
const (
	// Pitch is the twist per base in degrees
	Pitch = 720.0 / 21.0

	// Step is the rise per base in nm
	Step = 0.334

	// Radius of the double helix in nm
	Radius = 1.0

	// SphereRadius of a base, only used for the body approximation
	SphereRadius = 0.13

	// OppositeRotation is the angle between the two strands in degrees
	OppositeRotation = 155.0

	// HalfTurnLength is the rise of half a helical turn in nm
	HalfTurnLength = 180.0 / Pitch * Step

	// FullTurnLength is the rise of a full helical turn in nm
	FullTurnLength = 360.0 / Pitch * Step

	radiusPlusSphereRadius = Radius + SphereRadius

	// end spheres are exaggerated to make up for the capsule shape
	approximationRadiusMultiplier = 4
)

// DistanceToBaseCount is the number of bases closest to spanning distance.
func DistanceToBaseCount(distance float64) int {
	return int(math.Floor(distance/Step + 0.5))
}

// BasesToLength is the length of a helix of the given number of bases.
func BasesToLength(bases int) float64 {
	return float64(bases) * Step
}

// BasesToRotation is the twist in degrees accumulated over bases.
func BasesToRotation(bases int) float64 {
	return Pitch * float64(bases)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// apothem of a regular n-gon with side s.
func apothem(s float64, n int) float64 {
	return s / (2 * math.Tan(math.Pi/float64(n)))
}
