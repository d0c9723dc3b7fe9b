package keystore

import (
	"fmt"
)

// Input validation helpers

// ValidateFilePath checks if a file path is valid (not empty)
func ValidateFilePath(path string) error {
	if path == "" {
		return &ValidationError{
			Field:   "path",
			Message: "file path cannot be empty",
		}
	}
	return nil
}

// ValidatePassword checks that a store password was supplied
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{
			Field:   "password",
			Message: "password cannot be empty",
		}
	}
	return nil
}

// ValidateKeyMaterial checks that derived key material covers the profile
func ValidateKeyMaterial(km []byte, profile CipherProfile) error {
	if len(km) != profile.KeyMaterialLen() {
		return &ValidationError{
			Field:   "key_material",
			Value:   len(km),
			Message: fmt.Sprintf("invalid key material size: got %d bytes, expected %d bytes for %s", len(km), profile.KeyMaterialLen(), profile.Algorithm),
			Err:     ErrInvalidKeyMaterial,
		}
	}
	return nil
}

// ValidateCiphertext checks the length of a ciphertext against the profile.
// Block ciphers need at least one whole block, since padding is always added.
func ValidateCiphertext(ciphertext []byte, profile CipherProfile) error {
	if profile.Stream {
		return nil
	}
	if len(ciphertext) == 0 || len(ciphertext)%profile.BlockSize != 0 {
		return &DecryptionError{
			Algorithm: profile.Algorithm.String(),
			Message:   fmt.Sprintf("%d bytes is not a positive multiple of the %d-byte block size", len(ciphertext), profile.BlockSize),
			Err:       ErrUnalignedCiphertext,
		}
	}
	return nil
}
