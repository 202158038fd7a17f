package signals

// 64-bit LCG constants from Knuth's MMIX
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// LCG is a 64-bit linear congruential generator. It is deliberately simple
// so other implementations can reproduce the exact sequence.
type LCG struct {
	state uint64
}

// NewLCG creates a generator with the given seed
func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed}
}

// Next advances the generator and returns a value in [-1, 1) built from the
// top 53 bits of the state
func (g *LCG) Next() float64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return float64(g.state>>11)/(1<<53)*2 - 1
}

// Noise returns n uniform white noise samples in [-amplitude, amplitude)
func Noise(seed uint64, amplitude float64, n int) []float64 {
	g := NewLCG(seed)
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * g.Next()
	}
	return out
}
