package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// TargetSchemaVersion is the highest schema version this version of the code supports for the logsdb component.
	TargetSchemaVersion int64 = 1
	// LogsDBComponent is the name for the main logs database component.
	LogsDBComponent = "logsdb"
)

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Returns 0 if the component is not found, the versions table is uninitialized, or the table doesn't exist.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	query := `SELECT version FROM devlog_versions WHERE component = ?;`
	row := db.QueryRow(query, componentName)

	var version int64
	err := row.Scan(&version)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), "devlog_versions") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates the database schema (all tables for logsdb)
// and sets the specified schema version for the logsdb component.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	_, err := db.Exec(SchemaV1)
	if err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO devlog_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	_, err = db.Exec(insertVersionSQL, LogsDBComponent, schemaVersionToSet)
	if err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", LogsDBComponent, schemaVersionToSet, err)
	}

	slog.Debug("schema initialized", slog.String("component", LogsDBComponent), slog.Int64("version", schemaVersionToSet))
	return nil
}

// UpgradeDB applies necessary migrations to bring the logsdb component to appTargetSchemaVersion.
// dbIdentifierForLog is used for logging and error messages only.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	currentDBVersion, err := GetComponentSchemaVersion(db, LogsDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		slog.Info("initializing database schema",
			slog.String("component", LogsDBComponent),
			slog.String("database", dbIdentifierForLog),
			slog.Int64("version", appTargetSchemaVersion))
		if err = InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", LogsDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		slog.Debug("database schema up to date",
			slog.String("component", LogsDBComponent),
			slog.String("database", dbIdentifierForLog),
			slog.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", LogsDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", LogsDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
