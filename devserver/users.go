package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Account is a stored user record. PasswordHash is never serialized.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	DateJoined   time.Time `json:"date_joined"`
	LastLogin    time.Time `json:"last_login"`

	ActivationToken string `json:"-"`
	ResetToken      string `json:"-"`
}

// ValidatePasswordStrength checks if a password meets the registration
// requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// AccountRepo is the account store behind the stub backend.
type AccountRepo interface {
	Upsert(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id int64) (*Account, error)
	List() ([]*Account, error)
	SetActive(id int64, active bool) error
}

// InMemoryAccountRepo is the in-memory AccountRepo used by the devserver.
type InMemoryAccountRepo struct {
	mu      sync.RWMutex
	byID    map[int64]Account
	byEmail map[string]int64
	nextID  int64
}

// NewInMemoryAccountRepo creates an empty in-memory account store.
func NewInMemoryAccountRepo() *InMemoryAccountRepo {
	return &InMemoryAccountRepo{
		byID:    make(map[int64]Account),
		byEmail: make(map[string]int64),
		nextID:  1,
	}
}

// Upsert creates or updates an account. New accounts (ID zero) are assigned
// the next free id, written back to the passed record.
func (r *InMemoryAccountRepo) Upsert(account *Account) error {
	if account == nil {
		return fmt.Errorf("account is required")
	}
	if account.Email == "" {
		return fmt.Errorf("email is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(account.Email)
	if account.ID == 0 {
		if _, exists := r.byEmail[email]; exists {
			return fmt.Errorf("account already exists")
		}
		account.ID = r.nextID
		r.nextID++
	}

	r.byID[account.ID] = *account
	r.byEmail[email] = account.ID
	return nil
}

func (r *InMemoryAccountRepo) GetByEmail(email string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("account not found")
	}
	account := r.byID[id]
	return &account, nil
}

func (r *InMemoryAccountRepo) GetByID(id int64) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("account not found")
	}
	return &account, nil
}

func (r *InMemoryAccountRepo) List() ([]*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*Account, 0, len(r.byID))
	for id := range r.byID {
		account := r.byID[id]
		accounts = append(accounts, &account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *InMemoryAccountRepo) SetActive(id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("account not found")
	}
	account.Active = active
	r.byID[id] = account
	return nil
}
