package auth

import (
	"fmt"
	"sync"

	"stocklens/config"
	"stocklens/models"

	"golang.org/x/crypto/bcrypt"
)

// Manager holds the hashed password set in memory. Plaintext passwords
// only exist transiently at login and update time.
type Manager struct {
	mu  sync.RWMutex
	set models.PasswordSet
}

// NewManager hashes the default passwords from the environment config.
func NewManager() (*Manager, error) {
	cfg := config.AppConfig

	adminHash, err := hash(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	brands := make(map[string]string, len(cfg.BrandPasswords))
	for brand, pw := range cfg.BrandPasswords {
		h, err := hash(pw)
		if err != nil {
			return nil, err
		}
		brands[brand] = h
	}

	return &Manager{set: models.PasswordSet{Admin: adminHash, Brands: brands}}, nil
}

func hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

func matches(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Check resolves a submitted password to an access scope: the admin
// password grants every brand, a brand password grants that one brand.
func (m *Manager) Check(password string) (*models.Access, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if matches(m.set.Admin, password) {
		return &models.Access{IsAdmin: true, Brands: config.Brands}, true
	}
	for _, brand := range config.Brands {
		if h, ok := m.set.Brands[brand]; ok && matches(h, password) {
			return &models.Access{Brands: []string{brand}}, true
		}
	}
	return nil, false
}

// SetAdmin replaces the admin password.
func (m *Manager) SetAdmin(newPassword string) error {
	h, err := hash(newPassword)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Admin = h
	return nil
}

// SetBrand replaces one brand's password.
func (m *Manager) SetBrand(brand, newPassword string) error {
	h, err := hash(newPassword)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set.Brands == nil {
		m.set.Brands = make(map[string]string)
	}
	m.set.Brands[brand] = h
	return nil
}

// Snapshot copies the current hashed set for persistence.
func (m *Manager) Snapshot() models.PasswordSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	brands := make(map[string]string, len(m.set.Brands))
	for k, v := range m.set.Brands {
		brands[k] = v
	}
	return models.PasswordSet{Admin: m.set.Admin, Brands: brands}
}

// Restore replaces the set with one loaded from storage.
func (m *Manager) Restore(set models.PasswordSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set.Brands == nil {
		set.Brands = make(map[string]string)
	}
	m.set = set
}

// ConfiguredBrands lists brands that currently have a password.
func (m *Manager) ConfiguredBrands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	brands := make([]string, 0, len(m.set.Brands))
	for _, b := range config.Brands {
		if _, ok := m.set.Brands[b]; ok {
			brands = append(brands, b)
		}
	}
	return brands
}
