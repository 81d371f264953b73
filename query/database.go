package query

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const TableDatabaseVersion = "database_version"

// schemaVersion is the version written by a fresh install.
const schemaVersion = 1

// Database wraps the sqlx handle with the application's queries.
type Database struct {
	*sqlx.DB
}

func NewDatabase(db *sqlx.DB) *Database {
	return &Database{DB: db}
}

// InitDatabase opens (or creates) the tracker database at path and brings the
// schema up to date, seeding the default activity catalog on first run.
func InitDatabase(path string) (*Database, error) {
	dbTemp, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("InitDatabase: %w", err)
	}
	db := NewDatabase(dbTemp)

	exist, err := db.TableExists(TableDatabaseVersion)
	if err != nil {
		return nil, fmt.Errorf("InitDatabase: %w", err)
	}
	if exist {
		if err := db.updateDb(); err != nil {
			return nil, err
		}
	} else if err := db.createSchema(); err != nil {
		return nil, err
	}

	if err := db.SeedDefaultActivities(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) createSchema() error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		activity_id TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_start ON records(start_time);

	CREATE TABLE IF NOT EXISTS ongoing (
		activity_id TEXT NOT NULL,
		start_time TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS database_version (
		db_version INTEGER default 0
	);
	`)
	if err != nil {
		return fmt.Errorf("createSchema: %w", err)
	}
	_, err = db.Exec(`INSERT INTO database_version VALUES(?)`, schemaVersion)
	if err != nil {
		return fmt.Errorf("createSchema: %w", err)
	}
	return nil
}

func (db *Database) GetDbVersion() (int, error) {
	var dbVersion int
	err := db.Get(&dbVersion, "SELECT db_version FROM database_version LIMIT 1")
	if err != nil {
		return 0, fmt.Errorf("GetDbVersion: %w", err)
	}
	return dbVersion, nil
}

func (db *Database) TableExists(tableName string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT count(name)
		FROM sqlite_master
		WHERE type='table' AND name=?
	`, tableName).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// updateDb applies pending schema migrations in order.
func (db *Database) updateDb() error {
	dbVersion, err := db.GetDbVersion()
	if err != nil {
		return fmt.Errorf("updateDb: %w", err)
	}
	if dbVersion >= schemaVersion {
		return nil
	}
	tx := db.MustBegin().Tx
	// No migrations yet beyond the initial schema.
	_, err = tx.Exec(`UPDATE database_version SET db_version=?`, schemaVersion)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("updateDb: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("updateDb: error at commit: %w", err)
	}
	return nil
}
