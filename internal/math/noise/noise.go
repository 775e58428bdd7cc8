package noise

import (
	"math"
	"math/rand"
)

// Generator produces smooth 1D gradient noise and white noise from a seed
type Generator struct {
	rng  *rand.Rand
	seed int
}

// NewGenerator creates a new noise generator with the given seed
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		seed: int(seed),
	}
}

// Perlin1D returns gradient noise at x, roughly in [-1, 1]
func (g *Generator) Perlin1D(x float64) float64 {
	x0 := math.Floor(x)
	x1 := x0 + 1.0

	sx := smoothstep(x - x0)

	g0 := gradient(hash(int(x0), g.seed))
	g1 := gradient(hash(int(x1), g.seed))

	v0 := g0 * (x - x0)
	v1 := g1 * (x - x1)

	return lerp(v0, v1, sx) * 2.0
}

// Flicker maps noise at time t into [base-amount, base+amount]
func (g *Generator) Flicker(t, base, amount float64) float64 {
	n := g.Perlin1D(t*7.0) + 0.5*g.Perlin1D(t*17.0+31.0)
	n = math.Max(-1, math.Min(1, n/1.5))
	return base + n*amount
}

// White returns a uniformly distributed sample in [-1, 1)
func (g *Generator) White() float64 {
	return g.rng.Float64()*2.0 - 1.0
}

// Chance reports true with probability p
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}

// hash combines the coordinate and seed into a pseudo-random integer
func hash(x, seed int) int {
	h := seed + x*374761393
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func gradient(h int) float64 {
	if h&1 == 0 {
		return 1.0
	}
	return -1.0
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// smoothstep is the improved Perlin fade curve 6t^5 - 15t^4 + 10t^3
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}
