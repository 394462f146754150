package entity

import "time"

// User dueño/operador de un balcão. El perfil (nombre) vive en la misma fila.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName nombre para mostrar; "Usuário" si el perfil no tiene nombre.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return "Usuário"
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
