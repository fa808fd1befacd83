package uuid_test

import (
	"sync"
	"testing"

	"github.com/KirkDiggler/pgte-bot/internal/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGoogleUUIDGenerator(t *testing.T) {
	gen := uuid.NewGoogleUUIDGenerator()

	a, b := gen.New(), gen.New()
	assert.True(t, uuid.IsValid(a))
	assert.NotEqual(t, a, b)
	assert.False(t, uuid.IsValid("char-1"))
}

func TestSequenceGenerator(t *testing.T) {
	gen := uuid.NewSequenceGenerator("char")
	assert.Equal(t, "char-1", gen.New())
	assert.Equal(t, "char-2", gen.New())

	seen := sync.Map{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(gen.New(), true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()
}
