package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores de la cadena de pertenencia usuario → empresa → recurso.
// Cada eslabón tiene su propio error para que el adaptador HTTP pueda mapearlo sin ambigüedad.
// Todos envuelven ErrNotFound: "no existe" y "no es tuyo" son la misma respuesta.
var (
	ErrUnauthenticated  = errors.New("sin identidad autenticada")
	ErrUserNotFound     = notFound("usuario no encontrado")
	ErrCompanyNotFound  = notFound("empresa no encontrada")
	ErrClientNotFound   = notFound("cliente no encontrado")
	ErrProductNotFound  = notFound("producto no encontrado")
	ErrInvoiceNotFound  = notFound("factura no encontrada")
	ErrEstimateNotFound = notFound("cotización no encontrada")
	ErrPaymentNotFound  = notFound("pago no encontrado")
)

// ErrCommitFailed la transacción no pudo confirmarse; nada quedó aplicado.
var ErrCommitFailed = errors.New("no se pudo confirmar la transacción")

// ErrValidationFailed es el error base de ValidationError (usar errors.Is).
var ErrValidationFailed = errors.New("validación fallida")

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

// FieldError error de un campo concreto de la petición.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los errores de campo de una petición.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye un ValidationError con un único campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add agrega un error de campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil devuelve nil si no hay errores de campo.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
