package atomicbv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndTest(t *testing.T) {
	bv := New(200)
	assert.False(t, bv.Test(5))
	bv.Set(5)
	assert.True(t, bv.Test(5))
	assert.False(t, bv.Test(4))
	assert.False(t, bv.Test(6))
}

func TestSetStraddlesWords(t *testing.T) {
	bv := New(200)
	bv.Set(63)
	bv.Set(64)
	bv.Set(127)
	assert.True(t, bv.Test(63))
	assert.True(t, bv.Test(64))
	assert.True(t, bv.Test(127))
	assert.False(t, bv.Test(65))
}

func TestConcurrentSet(t *testing.T) {
	bv := New(1024)
	var wg sync.WaitGroup
	for i := 0; i < 1024; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bv.Set(uint64(i))
		}(i)
	}
	wg.Wait()
	for i := 0; i < 1024; i++ {
		assert.True(t, bv.Test(uint64(i)), "bit %d should be set", i)
	}
}
