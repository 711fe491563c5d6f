package storage

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhoicas/sst-manager-api/internal/domain"
	"github.com/jhoicas/sst-manager-api/internal/domain/repository"
	"github.com/jhoicas/sst-manager-api/internal/domain/resource"
)

var _ repository.GenericRepository = (*GenericRepo)(nil)

// GenericRepo implementación de GenericRepository sobre gorm (postgres, mysql o sqlite).
// Los nombres de columna recibidos se validan como identificadores y se citan con el dialecto.
type GenericRepo struct {
	db       *gorm.DB
	registry *resource.Registry
	tx       *TxRunner
}

// NewGenericRepository construye el repositorio genérico.
func NewGenericRepository(db *gorm.DB, registry *resource.Registry) *GenericRepo {
	return &GenericRepo{db: db, registry: registry, tx: NewTxRunner(db)}
}

// ListAll devuelve las filas que cumplen f, ordenadas por clave primaria.
func (r *GenericRepo) ListAll(ctx context.Context, d *resource.Descriptor, f repository.Filter) ([]repository.Row, error) {
	q := conn(ctx, r.db).Table(d.Table)
	q, err := where(q, f)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: d.PK()}}).Find(&rows).Error; err != nil {
		return nil, wrapErr("select", d, err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}

// FindByID devuelve la fila o nil, nil si no existe.
func (r *GenericRepo) FindByID(ctx context.Context, d *resource.Descriptor, id int64) (repository.Row, error) {
	var rows []map[string]any
	err := conn(ctx, r.db).Table(d.Table).
		Where(clause.Eq{Column: clause.Column{Name: d.PK()}, Value: id}).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, wrapErr("select", d, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Insert inserta una fila y devuelve el id generado.
func (r *GenericRepo) Insert(ctx context.Context, d *resource.Descriptor, fields repository.Row) (int64, error) {
	var id int64
	err := r.tx.Run(ctx, func(ctx context.Context) error {
		var err error
		id, err = r.insertOne(conn(ctx, r.db), d, fields)
		return err
	})
	return id, err
}

// InsertBatch inserta todas las filas o ninguna.
func (r *GenericRepo) InsertBatch(ctx context.Context, d *resource.Descriptor, rows []repository.Row) ([]int64, error) {
	if len(rows) == 0 {
		return nil, domain.Invalid("", "no se enviaron datos para crear")
	}
	ids := make([]int64, 0, len(rows))
	err := r.tx.Run(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		for i, fields := range rows {
			id, err := r.insertOne(db, d, fields)
			if err != nil {
				return fmt.Errorf("fila %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// insertOne arma INSERT ... RETURNING (postgres, sqlite) o INSERT + LAST_INSERT_ID (mysql).
// db debe ser una transacción para que LAST_INSERT_ID use la misma conexión.
func (r *GenericRepo) insertOne(db *gorm.DB, d *resource.Descriptor, fields repository.Row) (int64, error) {
	if len(fields) == 0 {
		return 0, domain.Invalid("", "no se enviaron datos para crear")
	}
	cols, vals, err := columnsAndValues(fields)
	if err != nil {
		return 0, err
	}
	table := clause.Table{Name: d.Table}

	var id int64
	if db.Dialector.Name() == "mysql" {
		if err := db.Exec("INSERT INTO ? ? VALUES ?", table, cols, vals).Error; err != nil {
			return 0, wrapErr("insert", d, err)
		}
		if err := db.Raw("SELECT LAST_INSERT_ID()").Scan(&id).Error; err != nil {
			return 0, wrapErr("insert", d, err)
		}
		return id, nil
	}
	pk := clause.Column{Name: d.PK()}
	if err := db.Raw("INSERT INTO ? ? VALUES ? RETURNING ?", table, cols, vals, pk).Scan(&id).Error; err != nil {
		return 0, wrapErr("insert", d, err)
	}
	return id, nil
}

// Update modifica solo las columnas presentes en fields. Devuelve false si el id no existe.
func (r *GenericRepo) Update(ctx context.Context, d *resource.Descriptor, id int64, fields repository.Row) (bool, error) {
	if len(fields) == 0 {
		return false, domain.Invalid("", "datos vacíos para actualizar")
	}
	if _, _, err := columnsAndValues(fields); err != nil {
		return false, err
	}
	res := conn(ctx, r.db).Table(d.Table).
		Where(clause.Eq{Column: clause.Column{Name: d.PK()}, Value: id}).
		Updates(map[string]any(fields))
	if res.Error != nil {
		return false, wrapErr("update", d, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete borra físicamente por clave primaria.
func (r *GenericRepo) Delete(ctx context.Context, d *resource.Descriptor, id int64) (bool, error) {
	res := conn(ctx, r.db).Exec("DELETE FROM ? WHERE ? = ?", clause.Table{Name: d.Table}, clause.Column{Name: d.PK()}, id)
	if res.Error != nil {
		return false, wrapErr("delete", d, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete marca la fila como inactiva y propaga a los hijos declarados en el descriptor.
func (r *GenericRepo) SoftDelete(ctx context.Context, d *resource.Descriptor, id int64) (bool, error) {
	if !d.HasStatus() {
		return false, fmt.Errorf("soft delete: %s no tiene columna de estado", d.Table)
	}
	var ok bool
	err := r.tx.Run(ctx, func(ctx context.Context) error {
		n, err := r.deactivate(conn(ctx, r.db), d, []int64{id})
		ok = n > 0
		return err
	})
	return ok, err
}

func (r *GenericRepo) deactivate(db *gorm.DB, d *resource.Descriptor, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Table(d.Table).
		Where(clause.IN{Column: clause.Column{Name: d.PK()}, Values: int64sToAny(ids)}).
		Update(d.StatusColumn, d.Inactive)
	if res.Error != nil {
		return 0, wrapErr("update", d, res.Error)
	}
	for _, c := range d.Children {
		child := r.registry.MustGet(c.Resource)
		var childIDs []int64
		err := db.Table(child.Table).
			Where(clause.IN{Column: clause.Column{Name: c.ForeignKey}, Values: int64sToAny(ids)}).
			Pluck(child.PK(), &childIDs).Error
		if err != nil {
			return 0, wrapErr("select", child, err)
		}
		if _, err := r.deactivate(db, child, childIDs); err != nil {
			return 0, err
		}
	}
	return res.RowsAffected, nil
}

// Exists indica si hay filas que coincidan con match, excluyendo excludeID (> 0).
// Los valores nil se comparan con IS NULL.
func (r *GenericRepo) Exists(ctx context.Context, d *resource.Descriptor, match repository.Filter, excludeID int64) (bool, error) {
	q, err := where(conn(ctx, r.db).Table(d.Table), match)
	if err != nil {
		return false, err
	}
	if excludeID > 0 {
		q = q.Where(clause.Neq{Column: clause.Column{Name: d.PK()}, Value: excludeID})
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, wrapErr("select", d, err)
	}
	return n > 0, nil
}

// Count cuenta las filas que coinciden con match.
func (r *GenericRepo) Count(ctx context.Context, d *resource.Descriptor, match repository.Filter) (int64, error) {
	q, err := where(conn(ctx, r.db).Table(d.Table), match)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, wrapErr("select", d, err)
	}
	return n, nil
}

// where agrega condiciones de igualdad en orden estable.
func where(q *gorm.DB, f repository.Filter) (*gorm.DB, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		if !resource.ValidIdentifier(k) {
			return nil, domain.Invalid(k, "nombre de campo inválido")
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q = q.Where(clause.Eq{Column: clause.Column{Name: k}, Value: f[k]})
	}
	return q, nil
}

// columnsAndValues valida los nombres de campo y rechaza valores anidados (objetos o listas).
func columnsAndValues(fields repository.Row) ([]any, []any, error) {
	names, bad := resource.Columns(fields)
	if bad != "" {
		return nil, nil, domain.Invalid(bad, "nombre de campo inválido")
	}
	cols := make([]any, len(names))
	vals := make([]any, len(names))
	for i, n := range names {
		switch fields[n].(type) {
		case map[string]any, []any:
			return nil, nil, domain.Invalid(n, "valor compuesto no soportado")
		}
		cols[i] = clause.Column{Name: n}
		vals[i] = fields[n]
	}
	return cols, vals, nil
}

func int64sToAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
