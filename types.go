package keystore

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Algorithm identifies one of the legacy cipher profiles a store can be
// opened with
type Algorithm uint8

const (
	// AES256CBC is AES with a 256-bit key in CBC mode (the default)
	AES256CBC Algorithm = iota
	// AES192CBC is AES with a 192-bit key in CBC mode
	AES192CBC
	// BlowfishCBC is Blowfish with a 128-bit key in CBC mode
	BlowfishCBC
	// RC4 is the RC4 stream cipher with a 128-bit key
	RC4
)

// DefaultAlgorithm is used when no algorithm name is given
const DefaultAlgorithm = AES256CBC

// String returns the canonical OpenSSL name of the algorithm
func (a Algorithm) String() string {
	switch a {
	case AES256CBC:
		return "aes-256-cbc"
	case AES192CBC:
		return "aes-192-cbc"
	case BlowfishCBC:
		return "bf-cbc"
	case RC4:
		return "rc4"
	default:
		return "unknown"
	}
}

// Profile returns the static cipher parameters of the algorithm
func (a Algorithm) Profile() (CipherProfile, error) {
	p, ok := profiles[a]
	if !ok {
		return CipherProfile{}, &ValidationError{
			Field:   "algorithm",
			Value:   a,
			Message: "unsupported algorithm",
			Err:     ErrUnknownAlgorithm,
		}
	}
	return p, nil
}

// CipherProfile describes the key, IV and block geometry of an algorithm
type CipherProfile struct {
	Algorithm Algorithm
	KeyLen    int  // Key length in bytes
	IVLen     int  // IV length in bytes, 0 for stream ciphers
	BlockSize int  // Block size in bytes, 1 for stream ciphers
	Stream    bool // True when no padding or chaining applies
}

// KeyMaterialLen is the number of bytes the KDF must produce for the profile
func (p CipherProfile) KeyMaterialLen() int {
	return p.KeyLen + p.IVLen
}

var profiles = map[Algorithm]CipherProfile{
	AES256CBC:   {Algorithm: AES256CBC, KeyLen: 32, IVLen: 16, BlockSize: 16},
	AES192CBC:   {Algorithm: AES192CBC, KeyLen: 24, IVLen: 16, BlockSize: 16},
	BlowfishCBC: {Algorithm: BlowfishCBC, KeyLen: 16, IVLen: 8, BlockSize: 8},
	RC4:         {Algorithm: RC4, KeyLen: 16, IVLen: 0, BlockSize: 1, Stream: true},
}

// algorithmNames maps every accepted identifier to its profile. The names are
// the ones `openssl enc` accepts, so a caller can pass them straight through.
var algorithmNames = map[string]Algorithm{
	"aes-256-cbc": AES256CBC,
	"aes256":      AES256CBC,
	"aes-192-cbc": AES192CBC,
	"aes192":      AES192CBC,
	"bf-cbc":      BlowfishCBC,
	"blowfish":    BlowfishCBC,
	"bf":          BlowfishCBC,
	"rc4":         RC4,
}

// ParseAlgorithm resolves an OpenSSL cipher name. Matching is case-insensitive
// and a leading "-" is ignored. The empty string selects DefaultAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "-"))
	if n == "" {
		return DefaultAlgorithm, nil
	}
	a, ok := algorithmNames[n]
	if !ok {
		return 0, &ValidationError{
			Field:   "algorithm",
			Value:   name,
			Message: "unsupported algorithm " + name,
			Err:     ErrUnknownAlgorithm,
		}
	}
	return a, nil
}

// AlgorithmNames returns every accepted algorithm identifier
func AlgorithmNames() []string {
	return []string{"aes-256-cbc", "aes256", "aes-192-cbc", "aes192", "bf-cbc", "blowfish", "bf", "rc4"}
}

const (
	// DefaultFileMode is the permission of a newly written store file
	DefaultFileMode os.FileMode = 0600
	// DefaultDirMode is the permission of directories created on first write
	DefaultDirMode os.FileMode = 0700
	// DefaultQueueSize is the number of operations that can wait without
	// blocking the submitting goroutine on the channel send
	DefaultQueueSize = 64
)

// Config contains configuration for a store handle
type Config struct {
	// Path of the backing file
	Path string

	// Password the key and IV are derived from
	Password string

	// Algorithm is an OpenSSL cipher name, empty selects DefaultAlgorithm
	Algorithm string

	// FileMode for the backing file (default 0600)
	FileMode os.FileMode

	// DirMode for parent directories created on first write (default 0700)
	DirMode os.FileMode

	// QueueSize is the buffer of the operation queue (default 64)
	QueueSize int

	// Logger receives per-operation debug entries. Nil uses a logger at
	// warn level writing to stderr.
	Logger *logrus.Logger
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if err := ValidateFilePath(c.Path); err != nil {
		return err
	}
	if err := ValidatePassword(c.Password); err != nil {
		return err
	}
	if _, err := ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if c.QueueSize < 0 {
		return &ValidationError{
			Field:   "queue_size",
			Value:   c.QueueSize,
			Message: "queue size cannot be negative",
		}
	}
	return nil
}

// withDefaults returns a copy of the config with zero fields filled in
func (c Config) withDefaults() Config {
	if c.FileMode == 0 {
		c.FileMode = DefaultFileMode
	}
	if c.DirMode == 0 {
		c.DirMode = DefaultDirMode
	}
	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
		c.Logger.SetLevel(logrus.WarnLevel)
	}
	return c
}
