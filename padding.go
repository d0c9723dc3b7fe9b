package keystore

import (
	"bytes"
)

// pad appends PKCS#7 padding. A full block is added when data is already
// aligned, so the result is never empty.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	copy(out[len(data):], bytes.Repeat([]byte{byte(n)}, n))
	return out
}

// unpad validates and strips PKCS#7 padding
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrUnalignedCiphertext
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}
