package invoke

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocksSerializePerAddress(t *testing.T) {
	t.Parallel()

	locks := NewAccountLocks()

	var mu sync.Mutex
	inFlight := make(map[string]int)
	maxInFlight := make(map[string]int)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, addr := range []string{"a", "b"} {
			wg.Add(1)
			go func(addr string) {
				defer wg.Done()
				locks.Lock(addr)
				defer locks.Unlock(addr)

				mu.Lock()
				inFlight[addr]++
				if inFlight[addr] > maxInFlight[addr] {
					maxInFlight[addr] = inFlight[addr]
				}
				mu.Unlock()

				mu.Lock()
				inFlight[addr]--
				mu.Unlock()
			}(addr)
		}
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight["a"], "same account never overlaps")
	assert.Equal(t, 1, maxInFlight["b"])
}
