package orm

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Model carries the identity and bookkeeping columns shared by application
// models. Embed it alongside bun.BaseModel:
//
//	type User struct {
//		bun.BaseModel `bun:"table:users,alias:u"`
//		orm.Model
//
//		Email string `bun:"email,notnull" json:"email"`
//	}
type Model struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// RecordID returns the primary key.
func (m *Model) RecordID() uuid.UUID {
	return m.ID
}

// SetRecordID assigns the primary key.
func (m *Model) SetRecordID(id uuid.UUID) {
	m.ID = id
}

// Touch updates the bookkeeping timestamps, setting CreatedAt on first use.
func (m *Model) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Entity is implemented by models embedding Model. Identifier returns the
// column used for lookups by natural key, such as an email or slug.
type Entity interface {
	RecordID() uuid.UUID
	SetRecordID(uuid.UUID)
	Identifier() string
	IdentifierValue() string
}

// newEntity builds a fresh instance of the pointer type T.
func newEntity[T Entity]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}
