package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// User representa um registro da tabela myusers.
// ID e CreatedAt são atribuídos pelo store e nunca enviados pelo client.
type User struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Username   *string   `gorm:"size:256" json:"username"`
	Password   *string   `gorm:"size:256" json:"password"`
	ProjectURL *string   `gorm:"column:project_url" json:"project_url"`
	ProjectKey *string   `gorm:"column:project_key" json:"project_key"`
	FullName   *string   `gorm:"column:full_name" json:"full_name"`
	Active     bool      `json:"active"`
	Access     Access    `gorm:"type:jsonb" json:"access"`
	CreatedAt  time.Time `gorm:"<-:false;default:now();autoCreateTime:false" json:"created_at"`
}

// TableName fixa o nome da tabela compartilhada com o Supabase.
func (User) TableName() string {
	return "myusers"
}

// Draft é a cópia editável de um User usada pelo formulário de criação/edição.
type Draft struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	ProjectURL string `json:"project_url"`
	ProjectKey string `json:"project_key"`
	FullName   string `json:"full_name"`
	Active     bool   `json:"active"`
	Access     Access `json:"access"`
}

// DefaultDraft devolve o rascunho vazio (active=true, access vazio).
func DefaultDraft() Draft {
	return Draft{Active: true, Access: Access{}}
}

// Draft copia os campos editáveis do registro. Campos nulos viram "".
func (u User) Draft() Draft {
	return Draft{
		Username:   deref(u.Username),
		Password:   deref(u.Password),
		ProjectURL: deref(u.ProjectURL),
		ProjectKey: deref(u.ProjectKey),
		FullName:   deref(u.FullName),
		Active:     u.Active,
		Access:     u.Access.Clone(),
	}
}

// Apply mescla os campos do rascunho no registro, preservando ID e CreatedAt.
func (u User) Apply(d Draft) User {
	u.Username = StringPtr(d.Username)
	u.Password = StringPtr(d.Password)
	u.ProjectURL = StringPtr(d.ProjectURL)
	u.ProjectKey = StringPtr(d.ProjectKey)
	u.FullName = StringPtr(d.FullName)
	u.Active = d.Active
	u.Access = d.Access.Clone()
	return u
}

// Columns devolve o rascunho no formato coluna -> valor usado em updates.
func (d Draft) Columns() map[string]any {
	access := d.Access
	if access == nil {
		access = Access{}
	}
	return map[string]any{
		"username":    d.Username,
		"password":    d.Password,
		"project_url": d.ProjectURL,
		"project_key": d.ProjectKey,
		"full_name":   d.FullName,
		"active":      d.Active,
		"access":      access,
	}
}

// Access é o campo livre (jsonb) com valores de tipo dinâmico.
type Access map[string]any

// Value implementa driver.Valuer.
func (a Access) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implementa sql.Scanner.
func (a *Access) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Access{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("access: tipo não suportado")
	}
	out := Access{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*a = out
	return nil
}

// Clone faz cópia rasa do mapa.
func (a Access) Clone() Access {
	out := make(Access, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr é um helper para montar registros em testes e fixtures.
func StringPtr(s string) *string {
	return &s
}
