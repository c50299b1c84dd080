package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"dentalrcm/app/config"
	"dentalrcm/app/models"
	"dentalrcm/app/repositories"

	"github.com/sirupsen/logrus"
)

// HandleCommand runs the subcommand in args and returns an exit code.
// No arguments means serve.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		return serve()
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "serve":
		return serve()
	case "migrate":
		return migrateCmd(args[1:])
	case "create-user":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "Error: username required for create-user")
			return 1
		}
		return createUser(args[1])
	case "backup":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "Error: backup file path required for backup")
			return 1
		}
		return backup(args[1])
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "Error: backup file path required for restore")
			return 1
		}
		return restore(args[1])
	case "version":
		fmt.Fprintf(stdout, "dentalrcm version %s\n", Version)
		return 0
	case "help", "-h", "--help":
		printHelp()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printHelp()
		return 1
	}
}

// printHelp prints help for all subcommands.
func printHelp() {
	helpText := `Usage: dentalrcm [command]

Commands:
  serve                           Run the API server (default)
  migrate up                      Apply all pending schema migrations
  migrate down [N]                Roll back N migrations (default 1)
  migrate version                 Print the applied schema version
  create-user <username>          Create an operator account; password is read from stdin
  backup <file>                   Write a snapshot of a badger:// database to file
  restore <file>                  Load a snapshot into a badger:// database
  version                         Show version information
  help                            Display this help message

Environment:
  DATABASE_URL       postgres://..., sqlite://path or badger://path (required)
  ADDR               listen address (default :5000)
  LOG_LEVEL          debug, info, warn, error (default info)
  LOG_FORMAT         text or json (default text)
  AUTO_MIGRATE       apply migrations before serving (default true)
  SHUTDOWN_TIMEOUT   graceful shutdown budget (default 10s)
`
	fmt.Fprint(stdout, helpText)
}

// bootstrap loads configuration and builds the logger every command shares.
func bootstrap() (config.Config, *logrus.Logger, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return config.Config{}, nil, false
	}
	log, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return config.Config{}, nil, false
	}
	log.SetOutput(stderr)
	return cfg, log, true
}

func serve() int {
	cfg, log, ok := bootstrap()
	if !ok {
		return 1
	}
	if err := RunAppServer(cfg, log); err != nil {
		log.WithError(err).Error("server exited")
		return 1
	}
	return 0
}

func migrateCmd(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Error: migrate needs one of up, down [N], version")
		return 1
	}
	cfg, log, ok := bootstrap()
	if !ok {
		return 1
	}

	m, err := repositories.NewMigrator(cfg.DatabaseURL, log)
	if errors.Is(err, repositories.ErrNoSchema) {
		fmt.Fprintln(stdout, "Nothing to migrate: badger databases have no schema")
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch args[0] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				fmt.Fprintf(stderr, "Error: invalid step count %q\n", args[1])
				return 1
			}
		}
		err = m.Down(steps)
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = m.Version()
		if err == nil {
			fmt.Fprintf(stdout, "Schema version %d", v)
			if dirty {
				fmt.Fprint(stdout, " (dirty)")
			}
			fmt.Fprintln(stdout)
			return 0
		}
	default:
		fmt.Fprintf(stderr, "Unknown migrate command: %s\n", args[0])
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Migrate %s complete\n", args[0])
	return 0
}

// readLine reads one line from stdin without its line ending.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// createUser stores an operator account with a bcrypt-hashed password read
// from stdin.
func createUser(username string) int {
	cfg, log, ok := bootstrap()
	if !ok {
		return 1
	}

	fmt.Fprint(stderr, "Password: ")
	password, err := readLine(bufio.NewReader(stdin))
	fmt.Fprintln(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: read password: %v\n", err)
		return 1
	}

	in, err := models.NewUserInsert(username, password)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	store, err := openStore(cfg, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()

	user, err := store.CreateUser(context.Background(), in)
	if errors.Is(err, repositories.ErrConflict) {
		fmt.Fprintf(stderr, "Error: user %q already exists\n", in.Username)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Created user %q with id %d\n", user.Username, user.ID)
	return 0
}

// openBadger opens the configured store and insists it is Badger-backed.
func openBadger() (*repositories.BadgerStore, bool) {
	cfg, log, ok := bootstrap()
	if !ok {
		return nil, false
	}
	store, err := repositories.Open(cfg.DatabaseURL, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, false
	}
	bs, isBadger := store.(*repositories.BadgerStore)
	if !isBadger {
		store.Close()
		fmt.Fprintln(stderr, "Error: backup and restore only support badger:// databases; use the database's own dump tools")
		return nil, false
	}
	return bs, true
}

// backup writes a snapshot of the database to backupFile.
func backup(backupFile string) int {
	store, ok := openBadger()
	if !ok {
		return 1
	}
	defer store.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := store.Backup(f); err != nil {
		fmt.Fprintf(stderr, "Failed to backup database: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Database backed up successfully to %s\n", backupFile)
	return 0
}

// restore loads a snapshot into the database after confirmation.
func restore(backupFile string) int {
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Fprintf(stderr, "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(stderr, "Backup file is empty: %s\n", backupFile)
		return 1
	}

	fmt.Fprint(stdout, "Records in the backup replace existing records with the same keys. Continue? [y/N] ")
	response, _ := readLine(bufio.NewReader(stdin))
	if response != "y" && response != "Y" {
		fmt.Fprintln(stdout, "Operation cancelled")
		return 1
	}

	store, ok := openBadger()
	if !ok {
		return 1
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := store.Restore(f); err != nil {
		fmt.Fprintf(stderr, "Failed to restore database: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "Database restored successfully")
	return 0
}
