package universe

import (
	"math/rand/v2"
	"time"
)

//Entropy is the source of randomness used to populate the grid
//*rand.Rand from math/rand/v2 satisfies it
type Entropy interface {
	//IntN returns a uniform random int in [0,n)
	IntN(n int) int
}

//NewEntropy creates a PCG based Entropy seeded with seed
//seed 0 means "seed from the clock"
func NewEntropy(seed uint64) Entropy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, 0))
}
