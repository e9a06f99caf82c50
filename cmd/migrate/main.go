// Command migrate manages the claims database schema and its users.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/siniestros/backend/internal/domain/identity"
	"github.com/siniestros/backend/internal/infrastructure/config"
	"github.com/siniestros/backend/internal/infrastructure/logger"
	"github.com/siniestros/backend/internal/infrastructure/migration"
	"github.com/siniestros/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

var errUsage = errors.New("invalid usage")

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: database.migrations_path)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if migrationsPath == "" {
		migrationsPath = cfg.Database.MigrationsPath
	}
	if migrationsPath, err = filepath.Abs(migrationsPath); err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	if err := run(cfg, migrationsPath, args, log); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage()
			os.Exit(2)
		}
		log.Fatal("Command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(cfg *config.Config, migrationsPath string, args []string, log *zap.Logger) error {
	command, rest := args[0], args[1:]
	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// Commands that do not touch the database
	switch command {
	case "create":
		if len(rest) < 1 {
			return fmt.Errorf("%w: create <name> [description]", errUsage)
		}
		mf, err := migration.CreateMigration(migrationsPath, rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	case "list":
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		log.Info("Available migrations", zap.Int("count", len(migrations)))
		return nil
	case "create-user":
		return createUser(cfg, rest, log)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()
	case "down":
		if !hasFlag(rest, "confirm") {
			return fmt.Errorf("%w: down drops every table, run 'migrate down -confirm'", errUsage)
		}
		return m.Down()
	case "step":
		n, err := intArg(rest, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		n, err := intArg(rest, "goto <version>")
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: version must be positive", errUsage)
		}
		return m.GoTo(uint(n))
	case "version", "status":
		st, err := m.Status(migrationsPath)
		if err != nil {
			return err
		}
		log.Info("Schema status",
			zap.Uint("version", st.Version),
			zap.Bool("dirty", st.Dirty),
			zap.Bool("pending", st.Pending),
		)
		return nil
	case "force":
		n, err := intArg(rest, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(n)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// createUser registers an application user: create-user <username> <nombre> <password> [consulta|ajuste]
func createUser(cfg *config.Config, args []string, log *zap.Logger) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: create-user <username> <nombre> <password> [consulta|ajuste]", errUsage)
	}
	permisos := []string{identity.PermissionConsultar}
	roles := []string{"CONSULTA"}
	if len(args) > 3 && args[3] == "ajuste" {
		permisos = append(permisos, identity.PermissionAjustar)
		roles = []string{"AJUSTADOR"}
	}

	user, err := identity.NewUser(args[0], args[1], args[2], roles, permisos)
	if err != nil {
		return err
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := persistence.NewGormUserRepository(db.DB).Save(ctx, user); err != nil {
		return err
	}
	log.Info("User saved", zap.String("username", user.Username), zap.Strings("permisos", permisos))
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a number", errUsage, usage, args[0])
	}
	return n, nil
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == "-"+name || a == "--"+name {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Herramienta de migraciones de siniestros

Uso:
  migrate [flags] <comando> [argumentos]

Comandos:
  up                          Aplica las migraciones pendientes
  down -confirm               Revierte todas las migraciones
  step <n>                    Aplica n migraciones (positivo=up, negativo=down)
  goto <version>              Migra a una versión específica
  version | status            Muestra la versión actual y si hay pendientes
  force <version>             Fija la versión sin ejecutar (reparar estado dirty)
  create <nombre> [desc]      Crea un par de archivos de migración
  list                        Lista las migraciones disponibles
  create-user <usuario> <nombre> <clave> [consulta|ajuste]
                              Crea o actualiza un usuario

Flags:
  -path string                Directorio de migraciones (por defecto database.migrations_path)
  -log-level string           debug, info, warn, error (por defecto info)

Variables de entorno:
  SIN_DATABASE_HOST, SIN_DATABASE_PORT, SIN_DATABASE_USER, SIN_DATABASE_PASSWORD, SIN_DATABASE_DBNAME`)
}
