// Command migrate applies or reverts the database schema.
//
//	migrate up
//	migrate down [steps]
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v6"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type Config struct {
	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(opts env.Options) (Config, error) {
	cfg := Config{}
	err := env.Parse(&cfg, opts)
	return cfg, err
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrate up | down [steps]")
	}

	cfg, err := loadConfig(env.Options{})
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresqlURL)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps <= 0 {
				return fmt.Errorf("invalid number of steps: %q", args[1])
			}
		}
		err = m.Steps(-steps)
	default:
		return fmt.Errorf("unknown command: %q", args[0])
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change.")
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("Schema is empty.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
	return nil
}
