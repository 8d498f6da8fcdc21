package models

// PasswordSet is the persisted password configuration: bcrypt hashes
// for the admin password and each brand password.
type PasswordSet struct {
	Admin  string            `json:"admin"`
	Brands map[string]string `json:"brands"`
}

// Access describes what a successful login may see.
type Access struct {
	IsAdmin bool     `json:"is_admin"`
	Brands  []string `json:"brands"`
}
