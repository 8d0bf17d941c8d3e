package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrDateOverlap        = errors.New("el rango de fechas se solapa con otro existente")
	ErrNoOpenFiscalYear   = errors.New("no hay año fiscal abierto para la fecha")
	ErrPaymentExceedsDebt = errors.New("el pago excede el saldo pendiente")
	ErrInvoiceNotOpen     = errors.New("la factura no admite pagos en su estado actual")
)
