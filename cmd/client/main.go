package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/openclinic/fhirsync/internal/client/cli"
	"github.com/openclinic/fhirsync/internal/client/storage/boltdb"
	"github.com/openclinic/fhirsync/internal/client/sync"
	"github.com/openclinic/fhirsync/internal/client/transport"
	"github.com/openclinic/fhirsync/internal/crypto"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "fhirsync-client.db", "Path to local database")
	encrypt := flag.Bool("encrypt", false, "Encrypt local records at rest")
	offline := flag.Bool("offline", false, "Start in offline mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var storeOpts []boltdb.Option
	if *encrypt {
		cipher, err := openCipher(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		storeOpts = append(storeOpts, boltdb.WithCipher(cipher))
	}

	store, err := boltdb.New(ctx, *dbPath, storeOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	network := sync.NewMonitor(!*offline)
	sender := transport.NewClient(*serverURL)
	svc := sync.NewService(store, sender, network, logger, sync.DefaultConfig())

	if err := runCommand(ctx, svc, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, svc *sync.Service, command string, args []string) error {
	switch command {
	case "queue":
		return cli.RunQueue(ctx, svc, args, os.Stdout)
	case "sync":
		return cli.RunSync(ctx, svc, os.Stdout)
	case "status":
		return cli.RunStatus(ctx, svc, os.Stdout)
	case "conflicts":
		return cli.RunConflicts(ctx, svc, args, os.Stdout)
	case "resolve":
		return cli.RunResolve(ctx, svc, args, os.Stdout)
	case "retry-failed":
		return cli.RunRetryFailed(ctx, svc, os.Stdout)
	case "export":
		return cli.RunExport(ctx, svc, firstArg(args), os.Stdout)
	case "import":
		return cli.RunImport(ctx, svc, firstArg(args), os.Stdout)
	case "clear":
		return cli.RunClear(ctx, svc, os.Stdout)
	default:
		cli.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// openCipher derives the at-rest encryption key from the user's passphrase.
// The Argon2 salt lives in a sidecar file next to the database so the same
// passphrase derives the same key across runs.
func openCipher(dbPath string) (*crypto.Cipher, error) {
	passphrase, err := cli.ReadPassphrase()
	if err != nil {
		return nil, err
	}

	salt, err := loadOrCreateSalt(dbPath + ".salt")
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return crypto.NewCipher(key)
}

func loadOrCreateSalt(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		salt, decErr := base64.StdEncoding.DecodeString(string(raw))
		if decErr != nil {
			return nil, fmt.Errorf("corrupt salt file %s: %w", path, decErr)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(salt)
	if err := os.WriteFile(path, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("failed to write salt file: %w", err)
	}

	return salt, nil
}

func printVersion() {
	fmt.Printf("FHIRSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
