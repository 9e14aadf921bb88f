// Package services holds the business logic behind the REST handlers. Each
// service takes a *sql.DB and a repomanager.RepositoryManager, runs mutating
// operations in a single transaction and reports failures with the sentinel
// errors of package common.
package services
