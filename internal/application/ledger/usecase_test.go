package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore guarda el estado compartido. El fakeTxRunner toma el mutex del store
// durante todo el callback: igual que el lock de fila en la DB, dos Record
// concurrentes se serializan y ven el estado ya commiteado por el anterior.
// Si el callback falla se restauran cantidades y libro (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	products  map[string]*entity.Product
	movements []*entity.Movement
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*entity.User),
		products: make(map[string]*entity.Product),
	}
}

type fakeTxRunner struct {
	s *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// snapshot para rollback
	quantities := make(map[string]int64, len(r.s.products))
	for id, p := range r.s.products {
		quantities[id] = p.Quantity
	}
	movLen := len(r.s.movements)

	if err := fn(&txMovementRepo{r.s}, &txProductRepo{r.s}); err != nil {
		for id, q := range quantities {
			r.s.products[id].Quantity = q
		}
		r.s.movements = r.s.movements[:movLen]
		return err
	}
	return nil
}

// txProductRepo opera sin lock: el fakeTxRunner ya tiene el mutex.
type txProductRepo struct{ s *memStore }

func (r *txProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *txProductRepo) GetByID(id string) (*entity.Product, error) { return r.GetForUpdate(id) }

func (r *txProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *txProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}

func (r *txProductRepo) UpdateQuantity(productID string, quantity int64) error {
	r.s.products[productID].Quantity = quantity
	return nil
}

func (r *txProductRepo) List(_, _ int) ([]*entity.Product, error)     { return nil, nil }
func (r *txProductRepo) ListAll() ([]*entity.Product, error)          { return nil, nil }
func (r *txProductRepo) LowStock(_ int64) ([]*entity.Product, error)  { return nil, nil }
func (r *txProductRepo) Delete(id string) error                       { delete(r.s.products, id); return nil }

type txMovementRepo struct{ s *memStore }

func (r *txMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *txMovementRepo) ListByProduct(_ string, _, _ int) ([]*entity.Movement, error) {
	return nil, nil
}
func (r *txMovementRepo) List(_, _ int) ([]*entity.Movement, error) { return nil, nil }

// fakeUserRepo y fakeMovementRepo se usan fuera de la transacción; toman el lock.
type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByResetToken(_ string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) Update(u *entity.User) error                    { return r.Create(u) }
func (r *fakeUserRepo) List(_, _ int) ([]*entity.User, error)          { return nil, nil }
func (r *fakeUserRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type fakeMovementRepo struct{ s *memStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

// ListByProduct devuelve los movimientos del producto del más reciente al más
// antiguo (el store los guarda en orden de inserción).
func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var filtered []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			filtered = append(filtered, r.s.movements[i])
		}
	}
	return paginate(filtered, limit, offset), nil
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		all = append(all, r.s.movements[i])
	}
	return paginate(all, limit, offset), nil
}

func paginate(list []*entity.Movement, limit, offset int) []*entity.Movement {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// Setup
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID    = "user-1"
	testProductID = "prod-1"
)

func newTestUseCase(t *testing.T, initialStock int64) (*ledger.LedgerUseCase, *memStore) {
	t.Helper()
	store := newMemStore()
	store.users[testUserID] = &entity.User{
		ID:    testUserID,
		Name:  "Ana Operadora",
		Email: "ana@almacen.local",
		Role:  entity.RoleStaff,
	}
	store.products[testProductID] = &entity.Product{
		ID:       testProductID,
		Name:     "Arroz 1kg",
		Category: "Granos",
		Price:    decimal.NewFromInt(3),
		Quantity: initialStock,
	}
	uc := ledger.NewLedgerUseCase(
		&fakeTxRunner{store},
		&fakeUserRepo{store},
		&fakeMovementRepo{store},
	)
	return uc, store
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — casos básicos
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_EntradaAumentaStock(t *testing.T) {
	uc, store := newTestUseCase(t, 10)

	m, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIN,
		Quantity:  5,
		UserID:    testUserID,
		Note:      "reposición semanal",
	})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, int64(15), store.products[testProductID].Quantity,
		"una entrada de 5 sobre stock 10 debe dejar 15")
	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.MovementTypeIN, store.movements[0].Type)
	assert.Equal(t, int64(5), store.movements[0].Quantity, "la cantidad del movimiento se guarda positiva")
}

func TestRecord_SalidaDescuentaStock(t *testing.T) {
	uc, store := newTestUseCase(t, 10)

	m, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOUT,
		Quantity:  4,
		UserID:    testUserID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6), store.products[testProductID].Quantity)
	assert.Equal(t, int64(4), m.Quantity, "la cantidad del movimiento se guarda positiva también en OUT")
	assert.Equal(t, entity.MovementTypeOUT, m.Type)
}

func TestRecord_SalidaHastaCero(t *testing.T) {
	uc, store := newTestUseCase(t, 7)

	_, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOUT,
		Quantity:  7,
		UserID:    testUserID,
	})
	require.NoError(t, err, "una salida que deja el stock exactamente en cero es válida")
	assert.Equal(t, int64(0), store.products[testProductID].Quantity)
}

func TestRecord_StockInsuficiente_NoCambiaNada(t *testing.T) {
	uc, store := newTestUseCase(t, 3)

	m, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeOUT,
		Quantity:  4,
		UserID:    testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, m)

	// Rechazo atómico: ni la cantidad ni el libro cambian.
	assert.Equal(t, int64(3), store.products[testProductID].Quantity)
	assert.Empty(t, store.movements, "un movimiento rechazado no debe aparecer en el libro")
}

func TestRecord_DenormalizaNombres(t *testing.T) {
	uc, store := newTestUseCase(t, 10)

	m, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIN,
		Quantity:  1,
		UserID:    testUserID,
	})
	require.NoError(t, err)

	assert.Equal(t, "Arroz 1kg", m.ProductName,
		"el movimiento copia el nombre del producto al momento del registro")
	assert.Equal(t, "Ana Operadora", m.UserName)
	assert.Equal(t, store.movements[0].ID, m.ID)
	assert.NotEmpty(t, m.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_TipoInvalido(t *testing.T) {
	uc, _ := newTestUseCase(t, 10)
	_, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      "TRANSFER",
		Quantity:  1,
		UserID:    testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_CantidadNoPositiva(t *testing.T) {
	uc, _ := newTestUseCase(t, 10)
	for _, qty := range []int64{0, -5} {
		_, err := uc.Record(context.Background(), ledger.RecordInput{
			ProductID: testProductID,
			Type:      entity.MovementTypeIN,
			Quantity:  qty,
			UserID:    testUserID,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %d debe rechazarse", qty)
	}
}

func TestRecord_ProductoInexistente(t *testing.T) {
	uc, store := newTestUseCase(t, 10)
	_, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: "no-existe",
		Type:      entity.MovementTypeIN,
		Quantity:  1,
		UserID:    testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movements)
}

func TestRecord_UsuarioInexistente(t *testing.T) {
	uc, _ := newTestUseCase(t, 10)
	_, err := uc.Record(context.Background(), ledger.RecordInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeIN,
		Quantity:  1,
		UserID:    "fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Record — concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// 50 salidas de 1 unidad compiten por un stock de 30: exactamente 30 deben
// entrar al libro y las otras 20 rechazarse; el stock nunca baja de cero.
func TestRecord_ConcurrenciaSalidasCompiten(t *testing.T) {
	uc, store := newTestUseCase(t, 30)

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Record(context.Background(), ledger.RecordInput{
				ProductID: testProductID,
				Type:      entity.MovementTypeOUT,
				Quantity:  1,
				UserID:    testUserID,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case err == domain.ErrInsufficientStock:
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}

	assert.Equal(t, 30, ok, "deben aceptarse exactamente tantas salidas como stock había")
	assert.Equal(t, 20, insufficient)
	assert.Equal(t, int64(0), store.products[testProductID].Quantity)
	assert.Len(t, store.movements, 30, "el libro solo registra los movimientos aceptados")
}

// Mezcla concurrente de entradas y salidas: al final, stock inicial + suma neta
// de los movimientos aceptados debe coincidir con la cantidad del producto.
func TestRecord_ConcurrenciaSumaNeta(t *testing.T) {
	const initial = 100
	uc, store := newTestUseCase(t, initial)

	const workers = 80
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := ledger.RecordInput{
				ProductID: testProductID,
				Type:      entity.MovementTypeIN,
				Quantity:  int64(i%5 + 1),
				UserID:    testUserID,
			}
			if i%2 == 0 {
				in.Type = entity.MovementTypeOUT
				in.Quantity = int64(i%7 + 1)
			}
			// ErrInsufficientStock es un resultado válido aquí
			_, _ = uc.Record(context.Background(), in)
		}(i)
	}
	wg.Wait()

	var net int64
	for _, m := range store.movements {
		if m.Type == entity.MovementTypeIN {
			net += m.Quantity
		} else {
			net -= m.Quantity
		}
	}
	final := store.products[testProductID].Quantity
	assert.Equal(t, int64(initial)+net, final,
		"la cantidad final debe ser el stock inicial más la suma neta del libro")
	assert.GreaterOrEqual(t, final, int64(0), "el stock nunca puede ser negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// History / List
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_MasRecientePrimero(t *testing.T) {
	uc, _ := newTestUseCase(t, 100)

	quantities := []int64{1, 2, 3}
	for _, q := range quantities {
		_, err := uc.Record(context.Background(), ledger.RecordInput{
			ProductID: testProductID,
			Type:      entity.MovementTypeOUT,
			Quantity:  q,
			UserID:    testUserID,
		})
		require.NoError(t, err)
	}

	history, err := uc.History(testProductID, 20, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, int64(3), history[0].Quantity, "el último movimiento registrado va primero")
	assert.Equal(t, int64(1), history[2].Quantity)
}

func TestHistory_ProductoSinMovimientos_DevuelveVacio(t *testing.T) {
	uc, _ := newTestUseCase(t, 10)

	history, err := uc.History(testProductID, 20, 0)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history, "producto sin movimientos devuelve lista vacía, no error")
}

func TestHistory_ProductIDVacio(t *testing.T) {
	uc, _ := newTestUseCase(t, 10)
	_, err := uc.History("", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_DevuelveTodosLosMovimientos(t *testing.T) {
	uc, store := newTestUseCase(t, 100)
	store.products["prod-2"] = &entity.Product{
		ID: "prod-2", Name: "Frijol 500g", Category: "Granos",
		Price: decimal.NewFromInt(2), Quantity: 50,
	}

	for _, pid := range []string{testProductID, "prod-2"} {
		_, err := uc.Record(context.Background(), ledger.RecordInput{
			ProductID: pid,
			Type:      entity.MovementTypeIN,
			Quantity:  1,
			UserID:    testUserID,
		})
		require.NoError(t, err)
	}

	all, err := uc.List(20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2, "List cruza todos los productos")
}
