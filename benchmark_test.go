package keystore

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"testing"
)

// Benchmark encryption throughput per algorithm
func BenchmarkEncrypt(b *testing.B) {
	sizes := []int{
		256,         // a handful of credentials
		64 * 1024,   // 64 KB
		1024 * 1024, // 1 MB
	}

	for alg := range profiles {
		for _, size := range sizes {
			b.Run(alg.String()+"/"+formatSize(size), func(b *testing.B) {
				benchmarkEncrypt(b, alg, size)
			})
		}
	}
}

func benchmarkEncrypt(b *testing.B, alg Algorithm, size int) {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		b.Fatalf("failed to generate test data: %v", err)
	}

	profile, _ := alg.Profile()
	engine, err := NewCipherEngine(profile, DeriveForProfile([]byte("bench"), profile))
	if err != nil {
		b.Fatalf("failed to create engine: %v", err)
	}

	b.SetBytes(int64(size))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := engine.Encrypt(data); err != nil {
			b.Fatalf("encryption failed: %v", err)
		}
	}
}

// Benchmark decryption throughput per algorithm
func BenchmarkDecrypt(b *testing.B) {
	for alg := range profiles {
		b.Run(alg.String()+"/"+formatSize(64*1024), func(b *testing.B) {
			profile, _ := alg.Profile()
			engine, err := NewCipherEngine(profile, DeriveForProfile([]byte("bench"), profile))
			if err != nil {
				b.Fatalf("failed to create engine: %v", err)
			}

			data := make([]byte, 64*1024)
			rand.Read(data)
			ciphertext, err := engine.Encrypt(data)
			if err != nil {
				b.Fatalf("encryption failed: %v", err)
			}

			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := engine.Decrypt(ciphertext); err != nil {
					b.Fatalf("decryption failed: %v", err)
				}
			}
		})
	}
}

// Benchmark key derivation, which runs on every store operation
func BenchmarkDeriveKeyMaterial(b *testing.B) {
	password := []byte("correct horse battery staple")
	for alg := range profiles {
		profile := profiles[alg]
		b.Run(alg.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				km := DeriveForProfile(password, profile)
				km.Wipe()
			}
		})
	}
}

// Benchmark full store operations against the host filesystem
func BenchmarkStore_GetPassword(b *testing.B) {
	for _, entries := range []int{10, 1000} {
		b.Run(fmt.Sprintf("%d_entries", entries), func(b *testing.B) {
			store := setupBenchStore(b, entries)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := store.GetPassword("service-0", "account-0"); err != nil {
					b.Fatalf("GetPassword failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkStore_ReplacePassword(b *testing.B) {
	for _, entries := range []int{10, 1000} {
		b.Run(fmt.Sprintf("%d_entries", entries), func(b *testing.B) {
			store := setupBenchStore(b, entries)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.ReplacePassword("service-0", "account-0", fmt.Sprintf("secret-%d", i)); err != nil {
					b.Fatalf("ReplacePassword failed: %v", err)
				}
			}
		})
	}
}

func BenchmarkStore_ParallelSet(b *testing.B) {
	store := setupBenchStore(b, 0)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			i++
			if _, err := store.ReplacePassword("service", fmt.Sprintf("account-%d", i%100), "secret"); err != nil {
				b.Errorf("ReplacePassword failed: %v", err)
				return
			}
		}
	})
}

func formatSize(size int) string {
	if size < 1024 {
		return fmt.Sprintf("%dB", size)
	}
	if size < 1024*1024 {
		return fmt.Sprintf("%dKB", size/1024)
	}
	return fmt.Sprintf("%dMB", size/(1024*1024))
}

// setupBenchStore opens a store pre-filled with entries credentials spread
// over ten services. The file is written once.
func setupBenchStore(tb testing.TB, entries int) *Store {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "bench.enc")
	store, err := Open(path, "bench", "")
	if err != nil {
		tb.Fatalf("Open failed: %v", err)
	}
	tb.Cleanup(func() { store.Close() })

	if entries > 0 {
		a := NewAccounts()
		for i := 0; i < entries; i++ {
			a.Replace(fmt.Sprintf("service-%d", i%10), fmt.Sprintf("account-%d", i), fmt.Sprintf("secret-%d", i))
		}
		if err := store.queue.do(func() error { return store.save(a) }); err != nil {
			tb.Fatalf("failed to seed store: %v", err)
		}
	}
	return store
}
