package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rc4"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// CipherEngine encrypts and decrypts whole messages the way `openssl enc`
// does for one algorithm and one key/IV pair
type CipherEngine interface {
	// Encrypt pads (block ciphers only) and encrypts plaintext
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext and validates and strips padding
	Decrypt(ciphertext []byte) ([]byte, error)

	// BlockSize returns the cipher block size, 1 for stream ciphers
	BlockSize() int
}

// CBCEngine implements CipherEngine using a block cipher in CBC mode with
// PKCS#7 padding
type CBCEngine struct {
	block   cipher.Block
	iv      []byte
	profile CipherProfile
}

// NewCBCEngine creates a CBC engine over block with the given IV
func NewCBCEngine(block cipher.Block, iv []byte, profile CipherProfile) (*CBCEngine, error) {
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("%s requires a %d-byte IV, got %d bytes", profile.Algorithm, block.BlockSize(), len(iv))
	}
	return &CBCEngine{
		block:   block,
		iv:      append([]byte(nil), iv...),
		profile: profile,
	}, nil
}

// Encrypt encrypts plaintext, always adding padding
func (e *CBCEngine) Encrypt(plaintext []byte) ([]byte, error) {
	buf := pad(plaintext, e.block.BlockSize())
	cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(buf, buf)
	return buf, nil
}

// Decrypt decrypts ciphertext and removes the padding
func (e *CBCEngine) Decrypt(ciphertext []byte) ([]byte, error) {
	if err := ValidateCiphertext(ciphertext, e.profile); err != nil {
		return nil, err
	}

	buf := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(buf, ciphertext)

	plaintext, err := unpad(buf, e.block.BlockSize())
	if err != nil {
		return nil, NewDecryptionError(e.profile.Algorithm.String(), err)
	}
	return plaintext, nil
}

// BlockSize returns the block size of the underlying cipher
func (e *CBCEngine) BlockSize() int {
	return e.block.BlockSize()
}

// StreamEngine implements CipherEngine using a keystream cipher. Encryption
// and decryption are the same XOR.
type StreamEngine struct {
	key []byte
}

// NewStreamEngine creates an RC4 engine for key
func NewStreamEngine(key []byte) (*StreamEngine, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("rc4 requires a non-empty key")
	}
	return &StreamEngine{key: append([]byte(nil), key...)}, nil
}

func (e *StreamEngine) xor(in []byte) ([]byte, error) {
	// A fresh keystream per message: every file is written from offset 0.
	c, err := rc4.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create rc4 cipher: %w", err)
	}
	out := make([]byte, len(in))
	c.XORKeyStream(out, in)
	return out, nil
}

// Encrypt XORs plaintext with the keystream
func (e *StreamEngine) Encrypt(plaintext []byte) ([]byte, error) {
	return e.xor(plaintext)
}

// Decrypt XORs ciphertext with the keystream
func (e *StreamEngine) Decrypt(ciphertext []byte) ([]byte, error) {
	return e.xor(ciphertext)
}

// BlockSize returns 1
func (e *StreamEngine) BlockSize() int {
	return 1
}

// NewCipherEngine creates a cipher engine for the profile from derived key
// material
func NewCipherEngine(profile CipherProfile, km KeyMaterial) (CipherEngine, error) {
	key, iv, err := km.Split(profile)
	if err != nil {
		return nil, err
	}

	switch profile.Algorithm {
	case AES256CBC, AES192CBC:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", err)
		}
		return NewCBCEngine(block, iv, profile)
	case BlowfishCBC:
		block, err := blowfish.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create Blowfish cipher: %w", err)
		}
		return NewCBCEngine(block, iv, profile)
	case RC4:
		return NewStreamEngine(key)
	default:
		return nil, &ValidationError{
			Field:   "algorithm",
			Value:   profile.Algorithm,
			Message: "unsupported algorithm",
			Err:     ErrUnknownAlgorithm,
		}
	}
}

// Encrypt encrypts plaintext with a key and IV derived from password. The
// result is byte-identical to
//
//	openssl enc -<algorithm> -nosalt -md md5 -pass pass:<password>
func Encrypt(algorithm Algorithm, password, plaintext []byte) ([]byte, error) {
	engine, err := newEngine(algorithm, password)
	if err != nil {
		return nil, err
	}
	return engine.Encrypt(plaintext)
}

// Decrypt reverses Encrypt. A wrong password or algorithm is reported as a
// *DecryptionError for block ciphers; stream ciphers cannot detect it.
func Decrypt(algorithm Algorithm, password, ciphertext []byte) ([]byte, error) {
	engine, err := newEngine(algorithm, password)
	if err != nil {
		return nil, err
	}
	return engine.Decrypt(ciphertext)
}

func newEngine(algorithm Algorithm, password []byte) (CipherEngine, error) {
	profile, err := algorithm.Profile()
	if err != nil {
		return nil, err
	}
	km := DeriveForProfile(password, profile)
	defer km.Wipe()
	return NewCipherEngine(profile, km)
}
