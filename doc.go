// Package keystore provides an encrypted, file-backed credential store on top
// of the AbsFs filesystem abstraction. Credentials are kept as a nested
// mapping of service -> account -> secret.
//
// # Overview
//
// The whole mapping is serialized as JSON and encrypted into a single file.
// The file format is the one written by the OpenSSL command line tool in
// no-salt mode, so a store file can be inspected or produced with:
//
//	openssl enc -d -aes-256-cbc -nosalt -md md5 -pass pass:PASSWORD -in store.enc
//	openssl enc -aes-256-cbc -nosalt -md md5 -pass pass:PASSWORD -in store.json -out store.enc
//
// Given the same plaintext bytes, password and algorithm, this package and
// OpenSSL produce byte-identical files.
//
// # File Format
//
// There is no header, magic, salt or IV in the file: it is the raw cipher
// output. Key and IV are derived from the password on every operation with
// the legacy EVP_BytesToKey scheme (MD5, one iteration, no salt). Block
// ciphers run in CBC mode with PKCS#7 padding. A missing or empty file is an
// empty store.
//
// The format carries no integrity tag. A wrong password or algorithm is
// detected only through invalid padding, which is reported as a
// *DecryptionError; with RC4 it is not detected at all and surfaces as a
// *CorruptFileError when the garbage fails to parse as JSON.
//
// # Supported Algorithms
//
//   - aes-256-cbc (default, alias aes256): 32-byte key, 16-byte IV
//   - aes-192-cbc (alias aes192): 24-byte key, 16-byte IV
//   - bf-cbc (aliases blowfish, bf): Blowfish, 16-byte key, 8-byte IV
//   - rc4: 16-byte key, no IV, stream cipher
//
// OpenSSL 3 needs "-provider legacy -provider default" for bf-cbc and rc4.
//
// # Basic Usage
//
//	store, err := keystore.Open("/home/me/.config/app/credentials.enc", "password", "aes-256-cbc")
//	if err != nil {
//	    panic(err)
//	}
//	defer store.Close()
//
//	ok, err := store.SetPassword("github.com", "octocat", "hunter2")
//	secret, found, err := store.GetPassword("github.com", "octocat")
//
// Any absfs.FileSystem can back a store:
//
//	fs, _ := memfs.NewFS()
//	store, err := keystore.New(fs, &keystore.Config{
//	    Path:     "/credentials.enc",
//	    Password: "password",
//	})
//
// # Concurrency
//
// A Store is safe for concurrent use. Operations on one Store are queued
// and executed one at a time in submission order; each one reads, decrypts,
// modifies, re-encrypts and atomically replaces the file before the next
// starts, so concurrent callers never lose updates. Writes go to a temporary
// file that is renamed over the target.
//
// Separate Store values, or separate processes, on the same path are not
// coordinated.
//
// # Security
//
// No-salt EVP_BytesToKey is a weak password derivation and exists here only
// for compatibility with existing files. The security of a store relies
// entirely on the strength of its password.
package keystore
