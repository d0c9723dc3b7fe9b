package keystore

import (
	"crypto/md5"
)

// KeyMaterial is the concatenated key and IV derived from a password
type KeyMaterial []byte

// DeriveKeyMaterial derives n bytes from password with the legacy OpenSSL
// EVP_BytesToKey scheme: one MD5 round per 16 bytes, no salt, one iteration.
//
//	D_0 = MD5(password)
//	D_i = MD5(D_{i-1} || password)
//
// The output is D_0 || D_1 || ... truncated to n bytes. This is exactly what
// `openssl enc -nosalt -md md5` uses to derive its key and IV.
func DeriveKeyMaterial(password []byte, n int) KeyMaterial {
	if n <= 0 {
		return KeyMaterial{}
	}

	out := make([]byte, 0, n+md5.Size)
	h := md5.New()
	var prev []byte
	for len(out) < n {
		h.Reset()
		h.Write(prev)
		h.Write(password)
		prev = h.Sum(nil)
		out = append(out, prev...)
	}

	km := KeyMaterial(out[:n])
	clear(out[n:cap(out)])
	return km
}

// DeriveForProfile derives exactly the key and IV bytes the profile needs
func DeriveForProfile(password []byte, profile CipherProfile) KeyMaterial {
	return DeriveKeyMaterial(password, profile.KeyMaterialLen())
}

// Split returns the key and IV portions of the material for the profile
func (km KeyMaterial) Split(profile CipherProfile) (key, iv []byte, err error) {
	if err := ValidateKeyMaterial(km, profile); err != nil {
		return nil, nil, err
	}
	return km[:profile.KeyLen], km[profile.KeyLen:profile.KeyMaterialLen()], nil
}

// Wipe zeroes the key material
func (km KeyMaterial) Wipe() {
	clear(km)
}
