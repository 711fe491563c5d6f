package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage"
	"github.com/jhoicas/sst-manager-api/internal/infrastructure/storage/storagetest"
)

func newGeneric(t *testing.T) (*storage.GenericRepo, *resource.Registry) {
	t.Helper()
	reg := resource.Default()
	return storage.NewGenericRepository(storagetest.NewDB(t), reg), reg
}

func TestGenericRepo_RoundTrip(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.Formularios)

	id, err := repo.Insert(ctx, d, repository.Row{"nombre": "Inspección", "tipo_norma": "Guía RUC"})
	require.NoError(t, err)
	assert.Positive(t, id)

	row, err := repo.FindByID(ctx, d, id)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Inspección", row["nombre"])
	assert.EqualValues(t, 1, row["estado"])

	ok, err := repo.Update(ctx, d, id, repository.Row{"nombre": "Inspección general"})
	require.NoError(t, err)
	assert.True(t, ok)

	row, err = repo.FindByID(ctx, d, id)
	require.NoError(t, err)
	assert.Equal(t, "Inspección general", row["nombre"])
	assert.Equal(t, "Guía RUC", row["tipo_norma"])

	ok, err = repo.Delete(ctx, d, id)
	require.NoError(t, err)
	assert.True(t, ok)

	row, err = repo.FindByID(ctx, d, id)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGenericRepo_ListAllOrderAndFilter(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.Formularios)

	rows, err := repo.ListAll(ctx, d, nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	for _, n := range []string{"A", "B", "C"} {
		_, err := repo.Insert(ctx, d, repository.Row{"nombre": n, "tipo_norma": "Guía RUC"})
		require.NoError(t, err)
	}
	_, err = repo.Insert(ctx, d, repository.Row{"nombre": "D", "tipo_norma": "Resolución 0312 / 1072"})
	require.NoError(t, err)

	rows, err = repo.ListAll(ctx, d, nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "A", rows[0]["nombre"])
	assert.Equal(t, "D", rows[3]["nombre"])

	rows, err = repo.ListAll(ctx, d, repository.Filter{"tipo_norma": "Guía RUC"})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGenericRepo_MissingRowsAreNotErrors(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.Formularios)

	row, err := repo.FindByID(ctx, d, 999)
	require.NoError(t, err)
	assert.Nil(t, row)

	ok, err := repo.Update(ctx, d, 999, repository.Row{"nombre": "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, d, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenericRepo_InputErrors(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.Formularios)

	_, err := repo.Update(ctx, d, 1, repository.Row{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = repo.Insert(ctx, d, repository.Row{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = repo.Insert(ctx, d, repository.Row{"nombre; DROP TABLE x": "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = repo.Insert(ctx, d, repository.Row{"nombre": map[string]any{"a": 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenericRepo_UnknownColumnIsStorageError(t *testing.T) {
	repo, reg := newGeneric(t)
	_, err := repo.Insert(context.Background(), reg.MustGet(resource.Formularios),
		repository.Row{"nombre": "x", "tipo_norma": "Guía RUC", "no_existe": 1})
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))

	var se *domain.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "insert", se.Op)
	assert.Equal(t, "formularios", se.Resource)
}

func TestGenericRepo_UniqueViolationIsConflict(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.CategoriasGuiaRUC)

	_, err := repo.Insert(ctx, d, repository.Row{"codigo": "C1", "descripcion": "uno"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, d, repository.Row{"codigo": "C1", "descripcion": "otro"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestGenericRepo_InsertBatchAllOrNothing(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.CategoriasGuiaRUC)

	ids, err := repo.InsertBatch(ctx, d, []repository.Row{
		{"codigo": "A", "descripcion": "a"},
		{"codigo": "B", "descripcion": "b"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Less(t, ids[0], ids[1])

	_, err = repo.InsertBatch(ctx, d, []repository.Row{
		{"codigo": "C", "descripcion": "c"},
		{"codigo": "A", "descripcion": "repetido"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 1")

	n, err := repo.Count(ctx, d, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "la fila C no debe quedar tras el rollback")
}

func TestGenericRepo_SoftDeleteCascades(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	cats := reg.MustGet(resource.Categorias)
	tipos := reg.MustGet(resource.CategoriaTipos)
	items := reg.MustGet(resource.Items)

	catID, err := repo.Insert(ctx, cats, repository.Row{"descripcion": "Estándares mínimos"})
	require.NoError(t, err)
	otherCat, err := repo.Insert(ctx, cats, repository.Row{"descripcion": "Otra"})
	require.NoError(t, err)
	tipoID, err := repo.Insert(ctx, tipos, repository.Row{"categoria_id": catID, "descripcion": "Recursos"})
	require.NoError(t, err)
	otherTipo, err := repo.Insert(ctx, tipos, repository.Row{"categoria_id": otherCat, "descripcion": "Gestión"})
	require.NoError(t, err)
	itemID, err := repo.Insert(ctx, items, repository.Row{
		"id_categorias": tipoID, "item_estandar": "1.1.1", "item": "Responsable",
		"criterio": "Asignar", "modo_verificacion": "Documento",
	})
	require.NoError(t, err)

	ok, err := repo.SoftDelete(ctx, cats, catID)
	require.NoError(t, err)
	assert.True(t, ok)

	for _, c := range []struct {
		d  *resource.Descriptor
		id int64
		st int64
	}{
		{cats, catID, 0}, {tipos, tipoID, 0}, {items, itemID, 0},
		{cats, otherCat, 1}, {tipos, otherTipo, 1},
	} {
		row, err := repo.FindByID(ctx, c.d, c.id)
		require.NoError(t, err)
		assert.EqualValues(t, c.st, row["estado"], "%s %d", c.d.Table, c.id)
	}

	ok, err = repo.SoftDelete(ctx, cats, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenericRepo_ExistsNullSafe(t *testing.T) {
	repo, reg := newGeneric(t)
	ctx := context.Background()
	d := reg.MustGet(resource.Perfiles)

	globalID, err := repo.Insert(ctx, d, repository.Row{"nombre_perfil": "Supervisor"})
	require.NoError(t, err)

	exists, err := repo.Exists(ctx, d, repository.Filter{"nombre_perfil": "Supervisor", "id_empresa": nil}, 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, d, repository.Filter{"nombre_perfil": "Supervisor", "id_empresa": int64(7)}, 0)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.Exists(ctx, d, repository.Filter{"nombre_perfil": "Supervisor", "id_empresa": nil}, globalID)
	require.NoError(t, err)
	assert.False(t, exists, "el propio registro se excluye")
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	db := storagetest.NewDB(t)
	reg := resource.Default()
	repo := storage.NewGenericRepository(db, reg)
	tx := storage.NewTxRunner(db)
	ctx := context.Background()
	d := reg.MustGet(resource.CiclosPHVA)

	boom := errors.New("boom")
	err := tx.Run(ctx, func(ctx context.Context) error {
		if _, err := repo.Insert(ctx, d, repository.Row{"nombre": "Planear"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := repo.Count(ctx, d, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = tx.Run(ctx, func(ctx context.Context) error {
		_, err := repo.Insert(ctx, d, repository.Row{"nombre": "Hacer"})
		return err
	})
	require.NoError(t, err)
	n, err = repo.Count(ctx, d, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
