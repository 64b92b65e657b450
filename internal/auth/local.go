package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrAdminNotConfigured indica que nenhuma senha de admin foi configurada.
var ErrAdminNotConfigured = errors.New("admin password is not configured")

// AdminSecret é o valor comparado pelo gate de admin: senha em claro ou hash bcrypt.
// A comparação é local e não autoritativa.
type AdminSecret struct {
	Plain string
	Hash  string
}

// Configured indica se existe algum valor para comparar.
func (s AdminSecret) Configured() bool {
	return s.Plain != "" || s.Hash != ""
}

// Source descreve de onde vem o segredo (painel de segredos).
func (s AdminSecret) Source() string {
	switch {
	case s.Hash != "":
		return "ADMIN_PASSWORD_HASH (bcrypt)"
	case s.Plain != "":
		return "ADMIN_PASSWORD"
	}
	return "not configured"
}

// Check compara o candidato com o segredo: igualdade exata de bytes, sensível a maiúsculas.
// Com hash configurado usa bcrypt.
func (s AdminSecret) Check(candidate string) (bool, error) {
	if !s.Configured() {
		return false, ErrAdminNotConfigured
	}
	if s.Hash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(s.Hash), []byte(candidate))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}
	return subtle.ConstantTimeCompare([]byte(s.Plain), []byte(candidate)) == 1, nil
}
