package hints

import (
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// PhraseChooser picks one of n phrases for a request. Implementations
// must return a value in [0, n).
type PhraseChooser interface {
	Choose(req *Request, n int) int
}

// HashChooser derives the choice from the session, question and attempt,
// so the same request always gets the same phrase.
type HashChooser struct{}

func (HashChooser) Choose(req *Request, n int) int {
	if n <= 1 {
		return 0
	}
	d := xxhash.New()
	d.WriteString(req.SessionID)
	d.WriteString("\x00")
	d.WriteString(req.QuestionID)
	d.WriteString("\x00")
	d.WriteString(strconv.Itoa(req.AttemptCount))
	return int(d.Sum64() % uint64(n))
}

// SeededChooser draws from a PCG stream. Two choosers with the same seed
// produce the same sequence.
type SeededChooser struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededChooser(seed uint64) *SeededChooser {
	return &SeededChooser{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *SeededChooser) Choose(_ *Request, n int) int {
	if n <= 1 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}
