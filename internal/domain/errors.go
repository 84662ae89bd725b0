package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError identifica la variante, la cantidad solicitada y la
// disponible cuando una salida excede el stock. La operación completa (todo el
// lote) se aborta; no queda ningún movimiento parcial registrado.
type InsufficientStockError struct {
	VariantID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la variante %s: solicitado %s, disponible %s",
		e.VariantID, e.Requested.String(), e.Available.String())
}

// Is permite detectar el error con errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
