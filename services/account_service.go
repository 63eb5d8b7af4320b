package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCredentialsRequired = errors.New("username and password required")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordTooLong     = fmt.Errorf("password must be at most %d bytes", maxPasswordBytes)
)

// bcrypt ignores everything past 72 bytes and refuses to hash longer input
const maxPasswordBytes = 72

type Account struct {
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AccountService keeps credentials in memory for the life of the process
type session struct {
	username string
	expires  time.Time
}

type AccountService struct {
	accounts map[string]*Account
	sessions map[string]session
	mu       sync.RWMutex
	cost     int
	now      func() time.Time
}

func NewAccountService() *AccountService {
	return &AccountService{
		accounts: make(map[string]*Account),
		sessions: make(map[string]session),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// NewAccountServiceWithCost uses a custom bcrypt cost; tests use bcrypt.MinCost
func NewAccountServiceWithCost(cost int) *AccountService {
	s := NewAccountService()
	s.cost = cost
	return s
}

func (s *AccountService) SignUp(username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[username]; exists {
		return nil, ErrUsernameTaken
	}

	account := &Account{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	s.accounts[username] = account
	log.Printf("Account created: %s", username)
	return account, nil
}

func (s *AccountService) Login(username, password string) (*Account, error) {
	username = strings.TrimSpace(username)

	s.mu.RLock()
	account, ok := s.accounts[username]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// OpenSession records a session issued to username until expires
func (s *AccountService) OpenSession(id, username string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session{username: username, expires: expires}
}

// SessionOpen reports whether id is a live session of an existing account
func (s *AccountService) SessionOpen(id, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.username != username || !s.now().Before(sess.expires) {
		return false
	}
	_, exists := s.accounts[username]
	return exists
}

func (s *AccountService) CloseSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// PruneSessions drops expired sessions and returns how many were removed
func (s *AccountService) PruneSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
