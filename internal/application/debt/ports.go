package debt

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// DebtTxRunner ejecuta una función con el repositorio de cartera atado a una
// transacción de BD. Los servicios de documentos (facturas, comprobantes) usan
// el mismo runner para que documento y partida de cartera se confirmen o
// reviertan juntos.
type DebtTxRunner interface {
	RunDebt(ctx context.Context, fn func(debts repository.DebtEntryRepository) error) error
}
