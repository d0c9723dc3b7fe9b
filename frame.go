package keystore

// The no-salt container has no magic, version, salt or IV on disk: the file
// is the raw cipher output. Files written with a salt start with the 8-byte
// "Salted__" marker; those are produced by salted mode and can never be read
// here, so they fail in the cipher like any other wrong-key input.

// encodeFrame wraps ciphertext for the file
func encodeFrame(ciphertext []byte) []byte {
	return ciphertext
}

// decodeFrame unwraps file contents. A missing or zero-length file is an
// empty store and must not reach the cipher.
func decodeFrame(data []byte) (ciphertext []byte, empty bool) {
	if len(data) == 0 {
		return nil, true
	}
	return data, false
}
