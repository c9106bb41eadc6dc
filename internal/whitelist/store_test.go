package whitelist

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Replace(t *testing.T) {
	s := NewStore()

	assert.Equal(t, uint64(0), s.Current().Generation())
	assert.False(t, s.Decide("example.com"))

	first := s.Replace([]string{"example.com"})
	assert.Equal(t, uint64(1), first.Generation())
	assert.True(t, s.Decide("example.com"))

	second := s.Replace([]string{"other.com"})
	assert.Equal(t, uint64(2), second.Generation())
	assert.False(t, s.Decide("example.com"))

	// A reader holding the old generation is unaffected.
	assert.True(t, first.Decide("example.com"))
}

// Every generation either allows both hosts or neither. A reader that sees a
// mixed answer from one snapshot has observed a partial set.
func TestStore_ConcurrentReloadIsAtomic(t *testing.T) {
	s := NewStore()
	both := []string{"a.example.com", "b.example.com"}
	s.Replace(both)

	var mixed atomic.Int64
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				set := s.Current()
				if set.Decide("a.example.com") != set.Decide("b.example.com") {
					mixed.Add(1)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		if i%2 == 0 {
			s.Replace(nil)
		} else {
			s.Replace(both)
		}
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, mixed.Load())
	assert.Equal(t, uint64(2001), s.Current().Generation())
}
