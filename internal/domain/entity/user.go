package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema. Es el ancla de identidad: es dueño de una o varias Company.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
