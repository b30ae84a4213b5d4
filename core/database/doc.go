// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to
// configure MySQL connections (or sqlite, used by tests and small
// deployments) based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection using the configured driver.
// Connection failure is not necessarily fatal: the start command falls back
// to the in-memory store so the bot keeps working, at the cost of losing
// records on restart (a rescan rebuilds them).
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns inspect the live schema. They back the
// startup drift check that runs when auto-migration is disabled.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database connection failed", zap.Error(err))
//	}
package database
