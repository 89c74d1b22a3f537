package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

const migrationsDir = "migrations"

type migration struct {
	version int
	name    string
	path    string
	down    bool
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	migrations, err := loadMigrations(migrationsDir, *mode == "down")
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	switch strings.ToLower(*mode) {
	case "up":
		if err := applyUp(db, migrations); err != nil {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Println("migration up completed")
	case "down":
		if err := applyDown(db, migrations); err != nil {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Println("migration down completed")
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}

// loadMigrations reads NNN_name.up.sql / NNN_name.down.sql files, sorted
// ascending for up and descending for down.
func loadMigrations(dir string, down bool) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrations []migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		isDown := strings.HasSuffix(name, ".down.sql")
		if isDown != down {
			continue
		}

		parts := strings.SplitN(name, "_", 2)
		if len(parts) < 2 {
			log.Printf("skip migration without version prefix: %s", name)
			continue
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			log.Printf("skip migration with invalid version: %s", name)
			continue
		}

		migrations = append(migrations, migration{
			version: version,
			name:    strings.TrimSuffix(strings.TrimSuffix(parts[1], ".down.sql"), ".up.sql"),
			path:    filepath.Join(dir, name),
			down:    isDown,
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		if down {
			return migrations[i].version > migrations[j].version
		}
		return migrations[i].version < migrations[j].version
	})
	return migrations, nil
}

func applied(db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func applyUp(db *sql.DB, migrations []migration) error {
	for _, m := range migrations {
		done, err := applied(db, m.version)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		log.Printf("applying %03d_%s", m.version, m.name)
		if err := execFile(db, m.path); err != nil {
			return fmt.Errorf("apply %s: %w", m.path, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations(version, name) VALUES($1,$2)", m.version, m.name); err != nil {
			return err
		}
	}
	return nil
}

func applyDown(db *sql.DB, migrations []migration) error {
	for _, m := range migrations {
		done, err := applied(db, m.version)
		if err != nil {
			return err
		}
		if !done {
			continue
		}

		log.Printf("reverting %03d_%s", m.version, m.name)
		if err := execFile(db, m.path); err != nil {
			return fmt.Errorf("revert %s: %w", m.path, err)
		}
		if _, err := db.Exec("DELETE FROM schema_migrations WHERE version=$1", m.version); err != nil {
			return err
		}
	}
	return nil
}

func execFile(db *sql.DB, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}
