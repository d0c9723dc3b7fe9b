package keystore

import (
	"fmt"
	"time"

	"github.com/absfs/absfs"
	"github.com/sirupsen/logrus"
)

// Store is a handle on one encrypted credential file. Every operation is
// queued and runs alone: it reads and decrypts the current file, applies the
// change and, when something changed, encrypts and atomically replaces the
// file before the next operation starts.
//
// A Store serializes only its own callers. Two handles (or two processes)
// on the same path are not coordinated and can lose each other's updates.
type Store struct {
	fs       absfs.FileSystem
	config   Config
	profile  CipherProfile
	password []byte
	queue    *opQueue
	log      *logrus.Entry
}

// Open opens the store at path on the host filesystem. The file does not
// need to exist; it is created, along with missing parent directories, by
// the first write.
func Open(path, password, algorithm string) (*Store, error) {
	return New(NewOSFS(), &Config{
		Path:      path,
		Password:  password,
		Algorithm: algorithm,
	})
}

// New creates a store handle over the given filesystem
func New(fsys absfs.FileSystem, config *Config) (*Store, error) {
	if fsys == nil {
		return nil, ErrNilFileSystem
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := config.withDefaults()

	algorithm, err := ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	profile, err := algorithm.Profile()
	if err != nil {
		return nil, err
	}

	s := &Store{
		fs:       fsys,
		config:   cfg,
		profile:  profile,
		password: []byte(cfg.Password),
		queue:    newOpQueue(cfg.QueueSize),
		log: cfg.Logger.WithFields(logrus.Fields{
			"path":      cfg.Path,
			"algorithm": algorithm.String(),
		}),
	}
	s.config.Password = ""
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.config.Path
}

// Algorithm returns the algorithm the store was opened with
func (s *Store) Algorithm() Algorithm {
	return s.profile.Algorithm
}

// GetPassword returns the secret stored for (service, account). ok is false
// when there is none.
func (s *Store) GetPassword(service, account string) (secret string, ok bool, err error) {
	err = s.view("get", func(a Accounts) {
		secret, ok = a.Get(service, account)
	})
	return secret, ok, err
}

// SetPassword stores secret for (service, account) unless a secret is
// already there. Called without a secret it changes nothing. It reports
// whether the secret was stored.
func (s *Store) SetPassword(service, account string, secret ...string) (bool, error) {
	if len(secret) > 1 {
		return false, NewValidationError("secret", len(secret), "at most one secret may be given")
	}
	var value *string
	if len(secret) == 1 {
		value = &secret[0]
	}

	var stored bool
	err := s.update("set", func(a Accounts) bool {
		stored = a.Set(service, account, value)
		return stored
	})
	if err != nil {
		return false, err
	}
	return stored, nil
}

// ReplacePassword stores secret for (service, account), overwriting any
// existing one. It returns true once the change is persisted; it does not
// tell a new entry from an overwritten one.
func (s *Store) ReplacePassword(service, account, secret string) (bool, error) {
	var replaced bool
	err := s.update("replace", func(a Accounts) bool {
		replaced = a.Replace(service, account, secret)
		return replaced
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}

// FindPassword returns the secret of some account under service. With more
// than one account it is unspecified which one.
func (s *Store) FindPassword(service string) (secret string, ok bool, err error) {
	err = s.view("find", func(a Accounts) {
		secret, ok = a.Find(service)
	})
	return secret, ok, err
}

// DeletePassword removes (service, account) and returns the secret it held.
// deleted is false when there was nothing to delete.
func (s *Store) DeletePassword(service, account string) (secret string, deleted bool, err error) {
	err = s.update("delete", func(a Accounts) bool {
		secret, deleted = a.Delete(service, account)
		return deleted
	})
	if err != nil {
		return "", false, err
	}
	return secret, deleted, nil
}

// FindCredentials returns every account and secret under service, sorted by
// account
func (s *Store) FindCredentials(service string) (creds []Credential, err error) {
	err = s.view("credentials", func(a Accounts) {
		creds = a.Credentials(service)
	})
	return creds, err
}

// Services returns the sorted names of all services with at least one account
func (s *Store) Services() (services []string, err error) {
	err = s.view("services", func(a Accounts) {
		services = a.Services()
	})
	return services, err
}

// Close waits for queued operations to finish and releases the handle.
// Operations after Close fail with ErrClosed.
func (s *Store) Close() error {
	s.queue.close()
	clear(s.password)
	return nil
}

// view runs a read-only operation against the current file contents
func (s *Store) view(op string, fn func(Accounts)) error {
	return s.run(op, func() error {
		a, err := s.load()
		if err != nil {
			return err
		}
		fn(a)
		return nil
	})
}

// update runs a read-modify-write operation. fn reports whether it changed
// the mapping; unchanged mappings are not written back.
func (s *Store) update(op string, fn func(Accounts) bool) error {
	return s.run(op, func() error {
		a, err := s.load()
		if err != nil {
			return err
		}
		if !fn(a) {
			return nil
		}
		return s.save(a)
	})
}

// run queues the operation and logs its outcome
func (s *Store) run(op string, fn func() error) error {
	start := time.Now()
	err := s.queue.do(fn)

	entry := s.log.WithFields(logrus.Fields{
		"op":       op,
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("store operation failed")
		return err
	}
	entry.Debug("store operation done")
	return nil
}

// load reads, decrypts and parses the backing file
func (s *Store) load() (Accounts, error) {
	data, err := readFile(s.fs, s.config.Path)
	if err != nil {
		return nil, err
	}

	ciphertext, empty := decodeFrame(data)
	if empty {
		return NewAccounts(), nil
	}

	engine, err := s.engine()
	if err != nil {
		return nil, err
	}
	plaintext, err := engine.Decrypt(ciphertext)
	if err != nil {
		return nil, s.withPath(err)
	}

	a, err := decodeAccounts(plaintext)
	if err != nil {
		return nil, NewCorruptFileError(s.config.Path, err)
	}
	return a, nil
}

// save encrypts the mapping and atomically replaces the backing file
func (s *Store) save(a Accounts) error {
	plaintext, err := encodeAccounts(a)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	engine, err := s.engine()
	if err != nil {
		return err
	}
	ciphertext, err := engine.Encrypt(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	if err := ensureParentDir(s.fs, s.config.Path, s.config.DirMode); err != nil {
		return err
	}
	return writeFileAtomic(s.fs, s.config.Path, encodeFrame(ciphertext), s.config.FileMode)
}

// engine derives the key and IV for this operation. Nothing is cached
// between operations.
func (s *Store) engine() (CipherEngine, error) {
	km := DeriveForProfile(s.password, s.profile)
	defer km.Wipe()
	return NewCipherEngine(s.profile, km)
}

// withPath adds the backing file path to a decryption error
func (s *Store) withPath(err error) error {
	if de, ok := err.(*DecryptionError); ok {
		cp := *de
		cp.Path = s.config.Path
		return &cp
	}
	return err
}
