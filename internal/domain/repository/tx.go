package repository

import "context"

// TxRunner ejecuta fn dentro de una transacción. Los repositorios llamados con el
// ctx recibido participan de ella; si ctx ya trae una transacción, se reutiliza.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
