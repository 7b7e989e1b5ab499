// Package layout manages reusable newsletter layouts.
//
// The service layer holds the business rules for creating and editing
// layouts. It depends on the repository interface defined in this package
// and should never import from api/.
//
// The repository implementation lives in repository/postgres/.
package layout
