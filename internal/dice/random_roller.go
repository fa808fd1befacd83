package dice

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
)

// MaxDice caps the dice in a single roll.
const MaxDice = 100

// randomRoller implements Roller with a pseudo-random source
type randomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller creates a new random dice roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// NewSeededRoller creates a roller that produces the same sequence for the
// same seed.
func NewSeededRoller(seed uint64) Roller {
	return &randomRoller{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (r *randomRoller) intN(n int) int {
	if r.rng == nil {
		return rand.IntN(n)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// Roll implements Roller.Roll
func (r *randomRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if err := validate(count, sides); err != nil {
		return nil, err
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := range rolls {
		rolls[i] = r.intN(sides) + 1
		rawTotal += rolls[i]
	}

	log.Printf("[Dice] Rolled %dd%d+%d: %v", count, sides, bonus, rolls)

	return &RollResult{
		Total:    rawTotal + bonus,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
		RawTotal: rawTotal,
	}, nil
}

func validate(count, sides int) error {
	if count < 1 || count > MaxDice {
		return fmt.Errorf("invalid dice count %d", count)
	}
	if sides < 1 {
		return fmt.Errorf("invalid dice size %d", sides)
	}
	return nil
}
