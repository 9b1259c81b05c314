package main

import (
	"accounts/internal/config"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	path := flag.String("path", "migrations", "directory with migration files")
	down := flag.Bool("down", false, "roll back all migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if cfg.Storage != config.STORAGE_POSTGRESQL {
		fmt.Println("Nothing to migrate, storage is", cfg.Storage)
		return
	}

	m, err := migrate.New("file://"+*path, cfg.PostgresqlURL)
	if err != nil {
		fail(err)
	}
	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fail(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		fail(err)
	}
	fmt.Printf("Success: version %d, dirty %t\n", version, dirty)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
