package chance

import (
	"math/rand"
	"time"
)

// Sampler is the single source of randomness for storyteller decisions.
// Seeding it makes every corruption and target choice reproducible in tests.
type Sampler struct {
	random *rand.Rand
}

// Config for the sampler
type Config struct {
	// Optional seed for testing
	Seed int64
}

// New creates a new sampler
func New(cfg *Config) *Sampler {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &Sampler{
		random: rand.New(source),
	}
}

// Float64 returns a uniform value in [0, 1)
func (s *Sampler) Float64() float64 {
	return s.random.Float64()
}

// Intn returns a uniform value in [0, n)
func (s *Sampler) Intn(n int) int {
	if n < 1 {
		return 0
	}
	return s.random.Intn(n)
}

// Pick returns a uniformly chosen element of the given slice
func (s *Sampler) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[s.random.Intn(len(options))]
}

// Roll returns true with the given probability
func (s *Sampler) Roll(probability float64) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 1 {
		return true
	}
	return s.random.Float64() < probability
}
