package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestOpQueue_PanicRecovery(t *testing.T) {
	q := newOpQueue(4)
	defer q.close()

	err := q.do(func() error { panic("boom") })
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("do() error = %v, want ErrPanic", err)
	}

	// The worker survives and keeps serving
	if err := q.do(func() error { return nil }); err != nil {
		t.Errorf("do() after panic = %v", err)
	}
}

func TestOpQueue_ErrorIsolation(t *testing.T) {
	q := newOpQueue(0)
	defer q.close()

	failure := errors.New("failed")
	if err := q.do(func() error { return failure }); err != failure {
		t.Errorf("do() = %v, want %v", err, failure)
	}
	if err := q.do(func() error { return nil }); err != nil {
		t.Errorf("next do() = %v", err)
	}
}

func TestOpQueue_Serializes(t *testing.T) {
	q := newOpQueue(8)
	defer q.close()

	var (
		mu      sync.Mutex
		running int
		overlap bool
		wg      sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.do(func() error {
				mu.Lock()
				running++
				if running > 1 {
					overlap = true
				}
				mu.Unlock()

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if overlap {
		t.Error("jobs ran concurrently")
	}
}

func TestOpQueue_CloseDrains(t *testing.T) {
	q := newOpQueue(16)

	var wg sync.WaitGroup
	results := make([]error, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = q.do(func() error { return nil })
		}(i)
	}
	wg.Wait()
	q.close()

	for i, err := range results {
		if err != nil {
			t.Errorf("job %d = %v", i, err)
		}
	}
	if err := q.do(func() error { return nil }); !errors.Is(err, ErrClosed) {
		t.Errorf("do() after close = %v, want ErrClosed", err)
	}
}

func TestDecrypt_GarbageDoesNotPanic(t *testing.T) {
	for alg := range profiles {
		for _, size := range []int{0, 1, 7, 8, 15, 16, 31, 32, 33, 1000} {
			data := make([]byte, size)
			rand.Read(data)

			func() {
				defer func() {
					if r := recover(); r != nil {
						t.Errorf("%s/%d: Decrypt panicked: %v", alg, size, r)
					}
				}()
				Decrypt(alg, []byte("garbage"), data)
			}()
		}
	}
}

func TestStore_GarbageFileDoesNotPanic(t *testing.T) {
	for alg := range profiles {
		t.Run(alg.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store.enc")
			garbage := make([]byte, 64)
			rand.Read(garbage)
			writeFixture(t, path, hex.EncodeToString(garbage))

			store, err := Open(path, vectorPassword, alg.String())
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer store.Close()

			_, _, err = store.GetPassword("serv1", "acct1")
			if errors.Is(err, ErrPanic) {
				t.Errorf("GetPassword panicked: %v", err)
			}
		})
	}
}
