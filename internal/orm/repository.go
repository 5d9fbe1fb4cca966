package orm

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRepository builds a typed repository for an Entity model. Lookups by
// natural key go through the column the model's Identifier reports.
func NewRepository[T Entity](db *bun.DB) repository.Repository[T] {
	return repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: func() T { return newEntity[T]() },
		GetID: func(record T) uuid.UUID {
			return record.RecordID()
		},
		SetID: func(record T, id uuid.UUID) {
			record.SetRecordID(id)
		},
		GetIdentifier: func() string {
			return newEntity[T]().Identifier()
		},
		GetIdentifierValue: func(record T) string {
			return record.IdentifierValue()
		},
	})
}
