package noise

import "math"

// Crackle synthesizes campfire sound: a low hiss with random pops whose
// rate follows the fire's flicker. Not safe for concurrent use.
type Crackle struct {
	gen     *Generator
	rate    float64 // pops per second at flicker 1
	decay   float64 // per-sample pop envelope multiplier
	pop     float64
	lowpass float64
	sampleT float64
}

// NewCrackle creates a synthesizer for the given sample rate
func NewCrackle(seed int64, sampleRate float64) *Crackle {
	return &Crackle{
		gen:     NewGenerator(seed),
		rate:    9,
		decay:   math.Exp(-1 / (0.004 * sampleRate)),
		sampleT: 1 / sampleRate,
	}
}

// Fill writes interleaved frames for the given channel count. gain scales
// the whole signal; flicker around 1 modulates the pop rate.
func (c *Crackle) Fill(out []float32, channels int, gain, flicker float64) {
	if channels < 1 {
		channels = 1
	}
	p := c.rate * math.Max(flicker, 0) * c.sampleT

	for i := 0; i+channels <= len(out); i += channels {
		if c.gen.Chance(p) {
			c.pop = 0.5 + 0.5*math.Abs(c.gen.White())
		}
		c.pop *= c.decay
		c.lowpass += (c.gen.White() - c.lowpass) * 0.05

		sample := (c.lowpass*0.3 + c.pop*c.gen.White()) * gain
		sample = math.Max(-1, math.Min(1, sample))
		for ch := 0; ch < channels; ch++ {
			out[i+ch] = float32(sample)
		}
	}
}
