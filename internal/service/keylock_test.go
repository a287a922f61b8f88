package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLockerSerializesSameKey(t *testing.T) {
	locks := newKeyLocker()

	counter := 0
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(progressKey("u1", "Go"))
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.size())
}

func TestKeyLockerIndependentKeys(t *testing.T) {
	locks := newKeyLocker()

	unlockA := locks.Lock(progressKey("u1", "Go"))
	unlockB := locks.Lock(progressKey("u1", "SQL"))
	assert.Equal(t, 2, locks.size())

	unlockA()
	unlockB()
	assert.Zero(t, locks.size())
}

func TestProgressKeyDistinguishesBoundaries(t *testing.T) {
	assert.NotEqual(t, progressKey("ab", "c"), progressKey("a", "bc"))
}
