package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	var (
		databasePath string
		source       string
		up           bool
		down         bool
	)

	flag.StringVar(&databasePath, "database", "", "Path to the sqlite database file (ex: fieldsync.db)")
	flag.StringVar(&source, "source", "", "Path to migrations directory (ex: internal/adapters/repository/sqlite/migrations)")
	flag.BoolVar(&up, "up", false, "Run up migrations")
	flag.BoolVar(&down, "down", false, "Run down migrations")
	flag.Parse()

	if databasePath == "" {
		log.Fatal("-database flag is required")
	}
	if source == "" {
		log.Fatal("-source flag is required")
	}
	if !up && !down {
		log.Fatal("either -up or -down flag is required")
	}
	if up && down {
		log.Fatal("cannot specify both -up and -down flags")
	}

	db, err := sql.Open("sqlite3", databasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		log.Fatalf("failed to create database driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", source),
		"sqlite3",
		driver,
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}

	if up {
		log.Println("running UP migrations...")
		if err := m.Up(); err != nil {
			if err == migrate.ErrNoChange {
				log.Println("no new migrations to apply")
				os.Exit(0)
			}
			log.Fatalf("failed to run up migrations: %v", err)
		}
		log.Println("UP migrations completed successfully")
	}

	if down {
		log.Println("running DOWN migrations...")
		if err := m.Down(); err != nil {
			if err == migrate.ErrNoChange {
				log.Println("no migrations to rollback")
				os.Exit(0)
			}
			log.Fatalf("failed to run down migrations: %v", err)
		}
		log.Println("DOWN migrations completed successfully")
	}

}
