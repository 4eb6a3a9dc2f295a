package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Movement representa un movimiento de stock (entrada o salida). Es inmutable una vez
// creado: el libro solo hace append. ProductName y UserName se desnormalizan al momento
// de registrar, así el historial sigue siendo legible si el producto o usuario se elimina.
type Movement struct {
	ID          string
	ProductID   string
	ProductName string
	Type        string
	Quantity    int64 // siempre positivo; el signo lo determina Type
	UserID      string
	UserName    string
	Note        string
	CreatedAt   time.Time // asignado por el servidor al registrar
}
