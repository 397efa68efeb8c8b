package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	locks := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock("order-1")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, locks.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	locks := newKeyedMutex()

	releaseA := locks.Lock("a")
	done := make(chan struct{})
	go func() {
		release := locks.Lock("b")
		release()
		close(done)
	}()
	<-done

	assert.Equal(t, 1, locks.size())
	releaseA()
	assert.Equal(t, 0, locks.size())
}
