// Package ledger implementa el libro de movimientos de stock: el único camino
// permitido para mutar Product.Quantity junto con su registro inmutable.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos de stock de forma transaccional (IN, OUT)
// con bloqueo de fila (SELECT FOR UPDATE) sobre el producto y Commit/Rollback.
// Dos Record concurrentes sobre el mismo producto se serializan por el lock;
// productos distintos avanzan en paralelo.
type LedgerUseCase struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	movementRepo repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, userRepo repository.UserRepository, movementRepo repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, userRepo: userRepo, movementRepo: movementRepo}
}

// RecordInput entrada para registrar un movimiento.
// Quantity siempre positivo; Type decide el signo aplicado al stock.
type RecordInput struct {
	ProductID string
	Type      string
	Quantity  int64
	UserID    string
	Note      string
}

// Record valida la entrada, bloquea la fila del producto dentro de una transacción,
// aplica el delta (+Quantity para IN, -Quantity para OUT) y persiste el movimiento.
// Rechaza con ErrInsufficientStock cualquier salida que dejaría la cantidad negativa;
// en ese caso ni la cantidad ni el libro cambian.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*entity.Movement, error) {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	user, err := uc.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	now := time.Now()
	var movement *entity.Movement

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.txRunner.Run(ctx, func(
		movementRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar condiciones de carrera
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newQuantity := product.Quantity + input.Quantity
		if input.Type == entity.MovementTypeOUT {
			newQuantity = product.Quantity - input.Quantity
		}
		if newQuantity < 0 {
			return domain.ErrInsufficientStock
		}

		if err := productRepo.UpdateQuantity(product.ID, newQuantity); err != nil {
			return err
		}

		movement = &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Type:        input.Type,
			Quantity:    input.Quantity,
			UserID:      user.ID,
			UserName:    user.Name,
			Note:        input.Note,
			CreatedAt:   now,
		}
		return movementRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// History devuelve los movimientos de un producto, más reciente primero.
// Producto sin movimientos devuelve slice vacío, no error.
func (uc *LedgerUseCase) History(productID string, limit, offset int) ([]*entity.Movement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// List devuelve todos los movimientos ordenados por fecha descendente (auditoría).
func (uc *LedgerUseCase) List(limit, offset int) ([]*entity.Movement, error) {
	list, err := uc.movementRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// ToMovementResponse convierte la entidad a su DTO público.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UserID:      m.UserID,
		UserName:    m.UserName,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}
