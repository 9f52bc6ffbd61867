package core

import (
	"context"
	"database/sql"
)

// Inserter stores records in a resource.
type Inserter interface {
	// Insert writes the given records. Each record is read through the
	// resource's field-column map; fields a record lacks are left out.
	Insert(ctx context.Context, records ...Container) (sql.Result, error)
}

// Updater changes records of a resource.
type Updater interface {
	// Update applies the change set to the records matching condition, or to
	// all records when condition is nil. An empty change set is an
	// invalid argument.
	Update(ctx context.Context, changes Container, condition *Expression) (sql.Result, error)
}

// Deleter removes records of a resource.
type Deleter interface {
	// Delete removes the records matching condition, or all records when
	// condition is nil.
	Delete(ctx context.Context, condition *Expression) (sql.Result, error)
}

// Selector reads records of a resource.
type Selector interface {
	// Select returns the rows matching condition, or all rows when condition
	// is nil.
	Select(ctx context.Context, condition *Expression) ([]Row, error)
}

// ResourceModel combines all CRUD operations over one resource.
type ResourceModel interface {
	Inserter
	Updater
	Deleter
	Selector
}
