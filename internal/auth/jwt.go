package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyClaims são os claims de uma chave/token do Supabase (anon key, service key, access token).
type KeyClaims struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
	jwt.RegisteredClaims
}

// KeyInfo resume o que o painel de segredos mostra sobre a chave configurada.
type KeyInfo struct {
	Role      string
	Ref       string
	Issuer    string
	ExpiresAt time.Time
}

// ErrNotJWT indica que o valor não é um JWT legível.
var ErrNotJWT = errors.New("valor não é um JWT")

// InspectKey lê os claims de uma chave sem validar a assinatura.
// O segredo de assinatura fica no servidor do Supabase; aqui só interessa o conteúdo.
func InspectKey(key string) (KeyInfo, error) {
	claims, err := parseUnverified(key)
	if err != nil {
		return KeyInfo{}, err
	}
	info := KeyInfo{Role: claims.Role, Ref: claims.Ref, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// TokenExpiry devolve o exp de um access token. Zero quando o token não tem exp.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := parseUnverified(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

func parseUnverified(token string) (*KeyClaims, error) {
	claims := &KeyClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrNotJWT, err)
	}
	return claims, nil
}
