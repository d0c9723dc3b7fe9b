// Package commands defines the keystore CLI.
//
// Commands
//
//   - get         Print the secret of an account
//   - set         Store a secret unless one is already present
//   - replace     Store a secret, overwriting any existing one
//   - find        Print the secret of some account under a service
//   - delete      Remove an account and print the secret it held
//   - list        List services, or the accounts of one service
//   - algorithms  List the accepted algorithm names
//   - encrypt     Encrypt stdin to stdout the way `openssl enc -nosalt -md md5` does
//   - decrypt     Reverse encrypt
//
// The store file comes from --file or KEYSTORE_FILE and defaults to
// ~/.keystore/credentials.enc. The password comes from --password or
// KEYSTORE_PASSWORD; without either it is read from the terminal.
//
// Commands that look something up exit with status 1 and print nothing when
// there is no match.
package commands
