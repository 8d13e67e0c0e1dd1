// Package core defines the collaborator interfaces and shared types consumed
// by the criteria builder.
package core

import (
	"context"

	"github.com/querycraft/criteria/pkg/params"
)

// Container is the dependency context a criteria resolves its collaborators
// from. It is passed explicitly; the builder never reaches for ambient state.
type Container interface {
	// ModelsMetadata returns the metadata provider for registered models
	ModelsMetadata() MetadataProvider

	// ModelsManager returns the factory that seeds query builders from a
	// parameter bag
	ModelsManager() BuilderFactory

	// Finder returns the executor that runs a find operation directly
	Finder() Finder
}

// FieldType classifies a model field for condition generation
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeInteger
	FieldTypeDecimal
	FieldTypeBoolean
	FieldTypeDateTime
	FieldTypeBlob
)

// String returns the lowercase name of the field type
func (t FieldType) String() string {
	switch t {
	case FieldTypeString:
		return "string"
	case FieldTypeInteger:
		return "integer"
	case FieldTypeDecimal:
		return "decimal"
	case FieldTypeBoolean:
		return "boolean"
	case FieldTypeDateTime:
		return "datetime"
	case FieldTypeBlob:
		return "blob"
	}
	return "unknown"
}

// MetadataProvider exposes per-model field metadata
type MetadataProvider interface {
	// DataTypes returns the declared type of every field of the model
	DataTypes(model string) (map[string]FieldType, error)

	// ReverseColumnMap returns the input-name-to-column remapping for the
	// model, or nil when every column matches its field name
	ReverseColumnMap(model string) map[string]string

	// TableName returns the storage table backing the model
	TableName(model string) (string, error)
}

// BuilderFactory constructs query builders seeded with a parameter bag
type BuilderFactory interface {
	CreateBuilder(p *params.Params) (QueryBuilder, error)
}

// QueryBuilder compiles an accumulated parameter bag into an executable
// query representation
type QueryBuilder interface {
	// From sets the source model of the query
	From(model string) QueryBuilder

	// Params returns the parameter bag the builder was seeded with
	Params() *params.Params

	// ToSQL renders the SQL statement and its ordered argument list
	ToSQL() (string, []any, error)
}

// Row is a single result row keyed by column name
type Row map[string]any

// ResultSet is the materialized outcome of a find operation
type ResultSet []Row

// Finder executes a find operation for a model described by a parameter bag
type Finder interface {
	Find(ctx context.Context, model string, p *params.Params) (ResultSet, error)
}
