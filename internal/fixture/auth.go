package fixture

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/redbaez/airwave-e2e/internal/ratelimit"
)

// Argon2id parameters. Tuned well below production cost so a full suite run
// does not spend its budget on hashing.
const (
	argon2Time    = 1
	argon2Memory  = 8 * 1024 // KiB
	argon2Threads = 1
	argon2KeyLen  = 32
	argon2SaltLen = 16

	sessionCookie = "aw_session"
)

// HashPassword derives an argon2id hash and encodes it in the standard
// $argon2id$v=19$m=...,t=...,p=...$salt$hash form.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, encodedSalt, encodedHash), nil
}

// VerifyPassword checks password against an encoded argon2id hash. Any parse
// failure is treated as a mismatch.
func VerifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	for _, param := range strings.Split(parts[3], ",") {
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			return false
		}
		n, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return false
		}
		switch kv[0] {
		case "m":
			memory = uint32(n)
		case "t":
			iterations = uint32(n)
		case "p":
			threads = uint8(n)
		}
	}
	if memory == 0 || iterations == 0 || threads == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > argon2KeyLen*2 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if len(got) != len(want) {
		return false
	}
	var diff byte
	for i := range got {
		diff |= got[i] ^ want[i]
	}
	return diff == 0
}

// Account is a seeded login.
type Account struct {
	Email        string
	PasswordHash string
}

// SessionData is the server-side state behind one session cookie.
type SessionData struct {
	Email        string
	Demo         bool
	ActiveClient string
}

// Sessions is a token-keyed in-memory session table with a per-email login
// rate limit.
type Sessions struct {
	mu       sync.Mutex
	accounts map[string]Account
	sessions map[string]*SessionData
	limiter  *ratelimit.Limiter
}

// NewSessions builds an empty session table with the default login limit.
func NewSessions() *Sessions {
	return NewSessionsWithLimit(ratelimit.DefaultConfig)
}

// NewSessionsWithLimit builds a session table with an explicit login limit.
// Test environments raise the limit so repeated logins do not throttle.
func NewSessionsWithLimit(limit ratelimit.Config) *Sessions {
	return &Sessions{
		accounts: make(map[string]Account),
		sessions: make(map[string]*SessionData),
		limiter:  ratelimit.New(limit),
	}
}

// Seed registers an account with the given plaintext password.
func (s *Sessions) Seed(email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(email)] = Account{Email: email, PasswordHash: hash}
	return nil
}

// Login validates credentials and mints a session token. A rate-limited or
// unknown email fails the same way as a wrong password.
func (s *Sessions) Login(email, password, client string) (string, bool) {
	if !s.limiter.Allow(strings.ToLower(email)) {
		return "", false
	}

	s.mu.Lock()
	account, ok := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok || !VerifyPassword(password, account.PasswordHash) {
		return "", false
	}
	return s.mint(&SessionData{Email: account.Email, ActiveClient: client}), true
}

// LoginDemo mints a demo session without credential validation.
func (s *Sessions) LoginDemo(client string) string {
	return s.mint(&SessionData{Email: "demo@airwave.app", Demo: true, ActiveClient: client})
}

// Get returns the session behind a token.
func (s *Sessions) Get(token string) (*SessionData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[token]
	return data, ok
}

// Revoke drops a session token.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// SetActiveClient updates the session's client workspace.
func (s *Sessions) SetActiveClient(token, client string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.sessions[token]
	if !ok {
		return false
	}
	data.ActiveClient = client
	return true
}

// RevokeAll drops every live session. Seeded accounts are kept.
func (s *Sessions) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*SessionData)
}

// Close releases the login limiter.
func (s *Sessions) Close() {
	s.limiter.Stop()
}

func (s *Sessions) mint(data *SessionData) string {
	token := newToken()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = data
	return token
}

func newToken() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("fixture: crypto/rand unavailable: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}
