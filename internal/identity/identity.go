// Package identity holds the player's name/email pair and the contract for
// persisting it between sessions.
package identity

import (
	"errors"
	"strings"
	"sync"
)

// Validation errors shown to the player on the sign-in form.
var (
	ErrNameRequired  = errors.New("please enter your name")
	ErrEmailRequired = errors.New("please enter your email")
	ErrEmailInvalid  = errors.New("please enter a valid email")
)

// Player identifies a player on the leaderboard. Email is the join key.
type Player struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// New trims the form input and validates it.
func New(name, email string) (Player, error) {
	p := Player{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// Validate performs the client-side presence checks.
func (p Player) Validate() error {
	switch {
	case p.Name == "":
		return ErrNameRequired
	case p.Email == "":
		return ErrEmailRequired
	case !strings.Contains(p.Email, "@"):
		return ErrEmailInvalid
	}
	return nil
}

// IsZero reports whether no identity has been set.
func (p Player) IsZero() bool {
	return p == Player{}
}

// Store persists identities keyed by a profile (the local user or an SSH user).
type Store interface {
	// Identity returns the stored identity for the profile; ok is false when none exists.
	Identity(profile string) (p Player, ok bool, err error)

	// SaveIdentity stores the identity for the profile, replacing any previous one.
	SaveIdentity(profile string, p Player) error
}

// MemoryStore is an in-process Store, used when no database is available.
type MemoryStore struct {
	mu      sync.Mutex
	players map[string]Player
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]Player)}
}

// Identity implements Store.
func (m *MemoryStore) Identity(profile string) (Player, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[profile]
	return p, ok, nil
}

// SaveIdentity implements Store.
func (m *MemoryStore) SaveIdentity(profile string, p Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players[profile] = p
	return nil
}
