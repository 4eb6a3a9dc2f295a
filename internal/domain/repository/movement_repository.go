package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// MovementRepository define el puerto de persistencia para Movement.
// Solo append y lecturas: los movimientos nunca se actualizan ni se eliminan,
// ni siquiera cuando el producto referenciado deja de existir (historial huérfano).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error)
	List(limit, offset int) ([]*entity.Movement, error)
}
