package contestsrvc

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	k := newKeyedMutex()
	key := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock(key)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Zero(t, k.size(), "released keys must be forgotten")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock(uuid.New())
	done := make(chan struct{})
	go func() {
		unlock := k.Lock(uuid.New())
		unlock()
		close(done)
	}()
	<-done
	unlockA()
	assert.Zero(t, k.size())
}
