package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/querycraft/criteria/pkg/core"
	"github.com/querycraft/criteria/pkg/params"
)

// MockContainer is a mock implementation of the core.Container interface
type MockContainer struct {
	mock.Mock
}

// ModelsMetadata returns the metadata provider
func (m *MockContainer) ModelsMetadata() core.MetadataProvider {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(core.MetadataProvider)
}

// ModelsManager returns the query-builder factory
func (m *MockContainer) ModelsManager() core.BuilderFactory {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(core.BuilderFactory)
}

// Finder returns the executing finder
func (m *MockContainer) Finder() core.Finder {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(core.Finder)
}

// MockMetadataProvider is a mock implementation of core.MetadataProvider
type MockMetadataProvider struct {
	mock.Mock
}

// DataTypes returns the declared type of every column of the model
func (m *MockMetadataProvider) DataTypes(model string) (map[string]core.FieldType, error) {
	args := m.Called(model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]core.FieldType), args.Error(1)
}

// ReverseColumnMap returns the input-name-to-column remapping for the model
func (m *MockMetadataProvider) ReverseColumnMap(model string) map[string]string {
	args := m.Called(model)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]string)
}

// TableName returns the storage table backing the model
func (m *MockMetadataProvider) TableName(model string) (string, error) {
	args := m.Called(model)
	return args.String(0), args.Error(1)
}

// MockBuilderFactory is a mock implementation of core.BuilderFactory
type MockBuilderFactory struct {
	mock.Mock
}

// CreateBuilder returns a query builder seeded with the given parameter bag
func (m *MockBuilderFactory) CreateBuilder(p *params.Params) (core.QueryBuilder, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(core.QueryBuilder), args.Error(1)
}

// MockQueryBuilder is a mock implementation of core.QueryBuilder
type MockQueryBuilder struct {
	mock.Mock
}

// From sets the source model of the query
func (m *MockQueryBuilder) From(model string) core.QueryBuilder {
	args := m.Called(model)
	return args.Get(0).(core.QueryBuilder)
}

// Params returns the parameter bag the builder was seeded with
func (m *MockQueryBuilder) Params() *params.Params {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*params.Params)
}

// ToSQL renders the SQL statement and its ordered argument list
func (m *MockQueryBuilder) ToSQL() (string, []any, error) {
	args := m.Called()
	var values []any
	if args.Get(1) != nil {
		values = args.Get(1).([]any)
	}
	return args.String(0), values, args.Error(2)
}

// MockFinder is a mock implementation of core.Finder
type MockFinder struct {
	mock.Mock
}

// Find executes a find operation for a model
func (m *MockFinder) Find(ctx context.Context, model string, p *params.Params) (core.ResultSet, error) {
	args := m.Called(ctx, model, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(core.ResultSet), args.Error(1)
}
