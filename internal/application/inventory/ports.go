package inventory

import (
	"context"

	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el append al libro y el upsert
// del snapshot de saldo sean atómicos: un lector jamás observa un movimiento
// sin su saldo correspondiente, ni al revés.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movements repository.StockMovementRepository,
		balances repository.BalanceRepository,
	) error) error
}
