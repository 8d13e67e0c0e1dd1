// Package model provides model registration and metadata management for the
// criteria module. The registry is the metadata provider criteria resolve
// through their dependency container.
package model

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/errors"
	"github.com/querycraft/criteria/pkg/naming"
)

// TableNamer lets a model override its derived table name.
type TableNamer interface {
	TableName() string
}

// Registry manages registered models and their metadata. It implements
// core.MetadataProvider.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Metadata
}

// NewRegistry creates a new model registry
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[string]*Metadata),
	}
}

// Metadata holds all metadata for a model
type Metadata struct {
	Name      string
	TableName string
	Type      reflect.Type
	Fields    map[string]*FieldMetadata // keyed by column name
	DataTypes map[string]core.FieldType
	// ColumnMap maps Go field names to column names; ReverseColumnMap is the
	// inverse.
	ColumnMap        map[string]string
	ReverseColumnMap map[string]string
}

// FieldMetadata holds metadata for a single field
type FieldMetadata struct {
	Name   string       // Go field name
	Column string       // SQL column name
	Type   core.FieldType
	GoType reflect.Type
	Index  int // Field index in struct
}

// Register registers a model under the name of its struct type.
func (r *Registry) Register(model any) error {
	modelType := indirectType(reflect.TypeOf(model))
	if modelType == nil || modelType.Kind() != reflect.Struct {
		return fmt.Errorf("%w: model must be a struct", errors.ErrInvalidModel)
	}
	return r.RegisterAs(modelType.Name(), model)
}

// RegisterAs registers a model under an explicit name and parses its
// metadata. Registering the same name twice is a no-op.
func (r *Registry) RegisterAs(name string, model any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[name]; exists {
		return nil
	}

	modelType := indirectType(reflect.TypeOf(model))
	if modelType == nil || modelType.Kind() != reflect.Struct {
		return fmt.Errorf("%w: model must be a struct", errors.ErrInvalidModel)
	}

	metadata, err := parseMetadata(name, modelType, model)
	if err != nil {
		return err
	}

	r.models[name] = metadata
	return nil
}

// GetMetadata retrieves metadata for a registered model name
func (r *Registry) GetMetadata(name string) (*Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata, exists := r.models[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", errors.ErrModelNotRegistered, name)
	}
	return metadata, nil
}

// DataTypes returns the declared type of every column of the model
func (r *Registry) DataTypes(model string) (map[string]core.FieldType, error) {
	metadata, err := r.GetMetadata(model)
	if err != nil {
		return nil, err
	}
	return metadata.DataTypes, nil
}

// ReverseColumnMap returns the field-to-column remapping for the model, or
// nil for an unknown model name
func (r *Registry) ReverseColumnMap(model string) map[string]string {
	metadata, err := r.GetMetadata(model)
	if err != nil {
		return nil
	}
	return metadata.ColumnMap
}

// TableName returns the storage table backing the model
func (r *Registry) TableName(model string) (string, error) {
	metadata, err := r.GetMetadata(model)
	if err != nil {
		return "", err
	}
	return metadata.TableName, nil
}

// parseMetadata parses model metadata from struct fields and db tags
func parseMetadata(name string, modelType reflect.Type, model any) (*Metadata, error) {
	metadata := &Metadata{
		Name:      name,
		TableName: tableName(name, model),
		Type:      modelType,
		Fields:    make(map[string]*FieldMetadata),
		DataTypes: make(map[string]core.FieldType),
	}

	columnMap := make(map[string]string)
	reverseMap := make(map[string]string)

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		column, skip := naming.ResolveColumnName(field)
		if skip {
			continue
		}
		if err := naming.ValidateIdentifier(column); err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", errors.ErrInvalidTag, field.Name, err)
		}

		fieldMeta := &FieldMetadata{
			Name:   field.Name,
			Column: column,
			Type:   classifyType(field.Type),
			GoType: field.Type,
			Index:  i,
		}

		metadata.Fields[column] = fieldMeta
		metadata.DataTypes[column] = fieldMeta.Type
		columnMap[field.Name] = column
		reverseMap[column] = field.Name
	}

	metadata.ColumnMap = columnMap
	metadata.ReverseColumnMap = reverseMap
	return metadata, nil
}

// tableName resolves the table for a model: explicit TableNamer first, then
// the snake_cased model name
func tableName(name string, model any) string {
	if namer, ok := model.(TableNamer); ok {
		if table := namer.TableName(); table != "" {
			return table
		}
	}
	return naming.DefaultColumnName(name)
}

// classifyType maps a Go type to the coarse field type used for condition
// generation
func classifyType(t reflect.Type) core.FieldType {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == reflect.TypeOf(time.Time{}) {
		return core.FieldTypeDateTime
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return core.FieldTypeBlob
	}

	switch t.Kind() {
	case reflect.String:
		return core.FieldTypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return core.FieldTypeInteger
	case reflect.Float32, reflect.Float64:
		return core.FieldTypeDecimal
	case reflect.Bool:
		return core.FieldTypeBoolean
	}
	return core.FieldTypeBlob
}

func indirectType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
