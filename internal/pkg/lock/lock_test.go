package lock

import (
	"sync"
	"testing"
)

func TestWithLockSerializesPerUser(t *testing.T) {
	ul := NewUserLock()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(1, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestDifferentUsersDoNotBlock(t *testing.T) {
	ul := NewUserLock()

	ul.Lock(1)
	defer ul.Unlock(1)

	done := make(chan struct{})
	go func() {
		ul.Lock(2)
		ul.Unlock(2)
		close(done)
	}()
	<-done
}
