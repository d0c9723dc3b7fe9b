package keystore

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Accounts is the plaintext content of a store: service -> account -> secret
type Accounts map[string]map[string]string

// Credential is one account and its secret under a service
type Credential struct {
	Account string `json:"account"`
	Secret  string `json:"password"`
}

// NewAccounts returns an empty mapping
func NewAccounts() Accounts {
	return make(Accounts)
}

// Get returns the secret for (service, account)
func (a Accounts) Get(service, account string) (string, bool) {
	secret, ok := a[service][account]
	return secret, ok
}

// Set inserts secret only if (service, account) holds nothing yet. A nil
// secret is a no-op. It reports whether the mapping changed.
func (a Accounts) Set(service, account string, secret *string) bool {
	if secret == nil {
		return false
	}
	if _, ok := a.Get(service, account); ok {
		return false
	}
	a.put(service, account, *secret)
	return true
}

// Replace inserts or overwrites the secret for (service, account). It always
// reports true: the mutation was applied, whether or not a value existed.
func (a Accounts) Replace(service, account, secret string) bool {
	a.put(service, account, secret)
	return true
}

// Find returns a secret of some account under service. Which one is
// unspecified when there are several.
func (a Accounts) Find(service string) (string, bool) {
	for _, secret := range a[service] {
		return secret, true
	}
	return "", false
}

// Delete removes (service, account) and returns the secret it held. A service
// left without accounts is removed too.
func (a Accounts) Delete(service, account string) (string, bool) {
	accounts, ok := a[service]
	if !ok {
		return "", false
	}
	secret, ok := accounts[account]
	if !ok {
		return "", false
	}
	delete(accounts, account)
	if len(accounts) == 0 {
		delete(a, service)
	}
	return secret, true
}

// Credentials returns every account under service, sorted by account
func (a Accounts) Credentials(service string) []Credential {
	accounts := a[service]
	creds := make([]Credential, 0, len(accounts))
	for account, secret := range accounts {
		creds = append(creds, Credential{Account: account, Secret: secret})
	}
	sort.Slice(creds, func(i, j int) bool { return creds[i].Account < creds[j].Account })
	return creds
}

// Services returns the sorted service names that hold at least one account
func (a Accounts) Services() []string {
	services := make([]string, 0, len(a))
	for service, accounts := range a {
		if len(accounts) > 0 {
			services = append(services, service)
		}
	}
	sort.Strings(services)
	return services
}

// Len returns the number of (service, account) entries
func (a Accounts) Len() int {
	n := 0
	for _, accounts := range a {
		n += len(accounts)
	}
	return n
}

func (a Accounts) put(service, account, secret string) {
	accounts, ok := a[service]
	if !ok {
		accounts = make(map[string]string)
		a[service] = accounts
	}
	accounts[account] = secret
}

// encodeAccounts serializes the mapping as compact JSON with sorted keys.
// HTML characters are left unescaped so the bytes match what JSON.stringify
// writes for the same content.
func encodeAccounts(a Accounts) ([]byte, error) {
	if a == nil {
		a = NewAccounts()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// decodeAccounts parses decrypted file contents. Empty input is an empty
// store. Services mapped to null or to an empty object are dropped.
func decodeAccounts(data []byte) (Accounts, error) {
	a := NewAccounts()
	if len(data) == 0 {
		return a, nil
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if a == nil {
		// The literal "null" decodes to a nil map.
		return NewAccounts(), nil
	}
	for service, accounts := range a {
		if len(accounts) == 0 {
			delete(a, service)
		}
	}
	return a, nil
}
