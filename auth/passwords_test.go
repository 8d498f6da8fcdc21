package auth

import (
	"testing"

	"stocklens/config"

	"github.com/stretchr/testify/assert"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	config.Load()
	m, err := NewManager()
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestCheckAdminPassword(t *testing.T) {
	m := newManager(t)
	access, ok := m.Check(config.AppConfig.AdminPassword)
	if !ok {
		t.Fatal("admin password rejected")
	}
	assert.True(t, access.IsAdmin)
	assert.Equal(t, config.Brands, access.Brands)
}

func TestCheckBrandPassword(t *testing.T) {
	m := newManager(t)
	access, ok := m.Check(config.AppConfig.BrandPasswords["cherimi"])
	if !ok {
		t.Fatal("brand password rejected")
	}
	assert.False(t, access.IsAdmin)
	assert.Equal(t, []string{"cherimi"}, access.Brands)
}

func TestCheckUnknownPassword(t *testing.T) {
	m := newManager(t)
	_, ok := m.Check("not-a-password")
	assert.False(t, ok)
}

func TestSetBrandReplacesPassword(t *testing.T) {
	m := newManager(t)
	old := config.AppConfig.BrandPasswords["rady"]

	if err := m.SetBrand("rady", "fresh-secret"); err != nil {
		t.Fatalf("set brand: %v", err)
	}
	_, ok := m.Check(old)
	assert.False(t, ok)

	access, ok := m.Check("fresh-secret")
	if !ok {
		t.Fatal("new password rejected")
	}
	assert.Equal(t, []string{"rady"}, access.Brands)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newManager(t)
	if err := m.SetAdmin("rotated-admin"); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	snap := m.Snapshot()

	other := newManager(t)
	other.Restore(snap)

	access, ok := other.Check("rotated-admin")
	if !ok {
		t.Fatal("restored admin password rejected")
	}
	assert.True(t, access.IsAdmin)
}

func TestConfiguredBrands(t *testing.T) {
	m := newManager(t)
	assert.Equal(t, config.Brands, m.ConfiguredBrands())
}
