package mathx

// RNG is a splitmix64 stream. The whole generator is one word so it is saved
// with the game and a loaded game continues the exact same sequence.
type RNG struct {
	State uint64 `json:"state"`
}

func NewRNG(seed int64) RNG {
	return RNG{State: Hash2(seed, 0x48, 0x56)}
}

func (r *RNG) Uint64() uint64 {
	r.State += 0x9e3779b97f4a7c15
	z := r.State
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint64()>>11) / (1 << 53)
}

// Intn returns a value in [0, n). n <= 0 returns 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Between returns a value in [lo, hi], inclusive.
func (r *RNG) Between(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

func (r *RNG) Coin() bool { return r.Uint64()&1 == 1 }

// Pick returns a uniformly chosen element; the zero value for an empty slice.
func Pick[T any](r *RNG, xs []T) T {
	var zero T
	if len(xs) == 0 {
		return zero
	}
	return xs[r.Intn(len(xs))]
}

// Shuffle permutes xs in place (Fisher-Yates).
func Shuffle[T any](r *RNG, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
