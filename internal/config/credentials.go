// Package config stores account logins in the OS keychain. A login is a
// server URL plus Basic-auth credentials; nothing is ever written to
// plain-text config files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/klappstuhl/stalmail/internal/keyringutil"
)

// AppName is the keychain service name and config directory name.
const AppName = "stalmail"

// Login represents a stored account with metadata. The password is
// never carried here; use GetPassword when it is actually needed.
type Login struct {
	Account   string    `json:"account"`
	Server    string    `json:"server"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	IsPrimary bool      `json:"is_primary,omitempty"`
	Password  string    `json:"-"` // Never serialize the password
}

type storedLogin struct {
	Server    string    `json:"server"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	IsPrimary bool      `json:"is_primary,omitempty"`
}

var openKeyring = func() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: AppName,
		// Try native keychain first, fall back to encrypted file if unavailable
		// (e.g., when binary is cross-compiled without CGO)
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,      // macOS (requires CGO)
			keyring.WinCredBackend,       // Windows
			keyring.SecretServiceBackend, // Linux (GNOME Keyring/KWallet)
			keyring.FileBackend,          // Fallback: encrypted file
		},
		FileDir:          configDir(),
		FilePasswordFunc: keyring.TerminalPrompt,
	})
	if err != nil {
		return nil, err
	}
	return keyringutil.Wrap(ring), nil
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/" + AppName + "/keyring"
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/" + AppName + "/keyring"
	}
	return "." + AppName + "/keyring"
}

// SaveLogin stores a login in the OS keychain under the account name.
// The first stored account automatically becomes primary.
func SaveLogin(account, server, username, password string) error {
	account = normalize(account)
	if account == "" {
		return fmt.Errorf("missing account name")
	}
	if server == "" {
		return fmt.Errorf("missing server URL")
	}
	if username == "" {
		return fmt.Errorf("missing username")
	}
	if password == "" {
		return fmt.Errorf("missing password")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	accounts, _ := ListAccounts() //nolint:errcheck // best-effort check for existing accounts
	isPrimary := len(accounts) == 0

	payload, err := json.Marshal(storedLogin{
		Server:    server,
		Username:  username,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		IsPrimary: isPrimary,
	})
	if err != nil {
		return err
	}

	return ring.Set(keyring.Item{
		Key:  loginKey(account),
		Data: payload,
	})
}

// SetPrimaryAccount marks the given account as primary and clears the
// flag on every other account.
func SetPrimaryAccount(account string) error {
	account = normalize(account)
	if account == "" {
		return fmt.Errorf("missing account name")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	keys, err := ring.Keys()
	if err != nil {
		return err
	}

	found := false
	for _, k := range keys {
		keyAccount, ok := parseLoginKey(k)
		if !ok {
			continue
		}

		item, err := ring.Get(k)
		if err != nil {
			continue
		}

		var sl storedLogin
		if unmarshalErr := json.Unmarshal(item.Data, &sl); unmarshalErr != nil {
			continue
		}

		isTarget := keyAccount == account
		if isTarget {
			found = true
		}
		sl.IsPrimary = isTarget

		payload, err := json.Marshal(sl)
		if err != nil {
			continue
		}

		if setErr := ring.Set(keyring.Item{
			Key:  k,
			Data: payload,
		}); setErr != nil && isTarget {
			return fmt.Errorf("failed to set primary account: %w", setErr)
		}
	}

	if !found {
		return fmt.Errorf("account not found: %s", account)
	}

	return nil
}

// GetPrimaryAccount returns the primary account name, or empty string
// if no account is stored.
func GetPrimaryAccount() (string, error) {
	logins, err := ListLogins()
	if err != nil {
		return "", err
	}

	for _, l := range logins {
		if l.IsPrimary {
			return l.Account, nil
		}
	}

	// If no primary is set but accounts exist, return the first one
	if len(logins) > 0 {
		return logins[0].Account, nil
	}

	return "", nil
}

// GetLogin retrieves a login including its password from the OS
// keychain.
func GetLogin(account string) (*Login, error) {
	account = normalize(account)
	if account == "" {
		return nil, fmt.Errorf("missing account name")
	}

	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(loginKey(account))
	if err != nil {
		return nil, err
	}

	var sl storedLogin
	if err := json.Unmarshal(item.Data, &sl); err != nil {
		return nil, err
	}

	return &Login{
		Account:   account,
		Server:    sl.Server,
		Username:  sl.Username,
		Password:  sl.Password,
		CreatedAt: sl.CreatedAt,
		IsPrimary: sl.IsPrimary,
	}, nil
}

// DeleteLogin removes a login from the OS keychain.
func DeleteLogin(account string) error {
	account = normalize(account)
	if account == "" {
		return fmt.Errorf("missing account name")
	}

	ring, err := openKeyring()
	if err != nil {
		return err
	}

	return ring.Remove(loginKey(account))
}

// ListAccounts returns the names of all configured accounts.
func ListAccounts() ([]string, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0)
	for _, k := range keys {
		account, ok := parseLoginKey(k)
		if !ok {
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

// ListLogins returns all stored logins with metadata. Passwords are
// deliberately absent from the result; use GetLogin when one is needed.
func ListLogins() ([]Login, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, err
	}

	logins := make([]Login, 0)
	for _, k := range keys {
		account, ok := parseLoginKey(k)
		if !ok {
			continue
		}

		item, err := ring.Get(k)
		if err != nil {
			return nil, err
		}

		var sl storedLogin
		if err := json.Unmarshal(item.Data, &sl); err != nil {
			return nil, err
		}

		logins = append(logins, Login{
			Account:   account,
			Server:    sl.Server,
			Username:  sl.Username,
			CreatedAt: sl.CreatedAt,
			IsPrimary: sl.IsPrimary,
		})
	}

	return logins, nil
}

func parseLoginKey(k string) (account string, ok bool) {
	const prefix = "login:"
	if !strings.HasPrefix(k, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(k, prefix)
	if strings.TrimSpace(rest) == "" {
		return "", false
	}
	return rest, true
}

func loginKey(account string) string {
	return fmt.Sprintf("login:%s", account)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
