// Package mocks provides mock implementations for the criteria collaborator
// interfaces. They are designed to be used with
// github.com/stretchr/testify/mock for unit testing code that consumes a
// dependency container without standing up a real database.
//
// # Basic Usage
//
//	func TestSearch(t *testing.T) {
//	    container := new(mocks.MockContainer)
//	    fnd := new(mocks.MockFinder)
//
//	    container.On("Finder").Return(fnd)
//	    fnd.On("Find", mock.Anything, "Robots", mock.Anything).
//	        Return(core.ResultSet{{"id": int64(1)}}, nil)
//
//	    result, err := criteria.New(container).SetModel("Robots").Execute()
//
//	    container.AssertExpectations(t)
//	    fnd.AssertExpectations(t)
//	}
//
// Chainable collaborators return the mock itself:
//
//	qb := new(mocks.MockQueryBuilder)
//	qb.On("From", "Robots").Return(qb)
package mocks

// Helper type aliases for convenience
type (
	// Container is an alias for MockContainer to allow shorter declarations
	Container = MockContainer

	// Finder is an alias for MockFinder to allow shorter declarations
	Finder = MockFinder
)
