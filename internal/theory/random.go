package theory

import (
	"math/rand"
	"time"
)

// NewRand returns a generator seeded with seed, or with the current time when seed is 0.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RandomNote picks a pitch class uniformly.
func RandomNote(rnd *rand.Rand) PitchClass {
	return PitchClass(rnd.Intn(NumPitchClasses))
}

// RandomTriad picks a root uniformly and a quality uniformly among enabled.
// An empty enabled set falls back to major only.
func RandomTriad(enabled []TriadType, rnd *rand.Rand) Triad {
	if len(enabled) == 0 {
		enabled = []TriadType{Major}
	}
	root := RandomNote(rnd)
	return Triad{Root: root, Type: enabled[rnd.Intn(len(enabled))]}
}

// WeightedNote picks a pitch class with weak notes weighted 1+factor and all others 1.
func WeightedNote(rnd *rand.Rand, weak map[PitchClass]struct{}, factor float64) PitchClass {
	if len(weak) == 0 || factor <= 0 {
		return RandomNote(rnd)
	}
	var weights [NumPitchClasses]float64
	total := 0.0
	for i := range weights {
		w := 1.0
		if _, ok := weak[PitchClass(i)]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}
	r := rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return PitchClass(i)
		}
	}
	return B
}

// PickPosition returns a uniformly chosen element of positions.
func PickPosition(positions []Position, rnd *rand.Rand) (Position, bool) {
	if len(positions) == 0 {
		return Position{}, false
	}
	return positions[rnd.Intn(len(positions))], true
}
