package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByResetToken(_ string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) Update(u *entity.User) error                    { return r.Create(u) }

func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error) {
	var all []*entity.User
	for _, u := range r.users {
		cp := *u
		all = append(all, &cp)
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestUserCreate_AdminPuedeCrearAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	out, err := uc.Create(dto.CreateUserRequest{
		Name: "Beto", Email: "beto@almacen.local", Password: "clave-segura", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
}

func TestUserCreate_RolRequerido(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	_, err := uc.Create(dto.CreateUserRequest{
		Name: "Beto", Email: "beto@almacen.local", Password: "clave-segura",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "en administración el rol es obligatorio")
}

func TestUserCreate_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	_, err := uc.Create(dto.CreateUserRequest{
		Name: "Beto", Email: "beto@almacen.local", Password: "clave-segura", Role: entity.RoleStaff,
	})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateUserRequest{
		Name: "Otro Beto", Email: "beto@almacen.local", Password: "otra-clave", Role: entity.RoleStaff,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserDelete_AutoEliminacionProhibida(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	admin, err := uc.Create(dto.CreateUserRequest{
		Name: "Admin", Email: "admin@almacen.local", Password: "clave-segura", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	err = uc.Delete(admin.ID, admin.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un admin no puede eliminarse a sí mismo")

	stored, _ := repo.GetByID(admin.ID)
	assert.NotNil(t, stored, "la cuenta debe seguir existiendo")
}

func TestUserDelete_OK(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	admin, err := uc.Create(dto.CreateUserRequest{
		Name: "Admin", Email: "admin@almacen.local", Password: "clave-segura", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)
	staff, err := uc.Create(dto.CreateUserRequest{
		Name: "Staff", Email: "staff@almacen.local", Password: "clave-segura", Role: entity.RoleStaff,
	})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(admin.ID, staff.ID))
	stored, _ := repo.GetByID(staff.ID)
	assert.Nil(t, stored)
}

func TestUserDelete_NoExiste(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)
	err := uc.Delete("actor", "fantasma")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserList_Pagina(t *testing.T) {
	repo := newFakeUserRepo()
	uc := usecase.NewUserUseCase(repo)

	for _, email := range []string{"a@almacen.local", "b@almacen.local", "c@almacen.local"} {
		_, err := uc.Create(dto.CreateUserRequest{
			Name: email, Email: email, Password: "clave-segura", Role: entity.RoleStaff,
		})
		require.NoError(t, err)
	}

	out, err := uc.List(2, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 2, out.Page.Limit)
}
