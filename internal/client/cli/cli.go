// Package cli implements the fhirsync client commands on top of the sync
// engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/openclinic/fhirsync/internal/client/sync"
	"github.com/openclinic/fhirsync/internal/models"
)

// PrintUsage prints the command overview.
func PrintUsage() {
	fmt.Fprintln(os.Stderr, `Usage: fhirsync [flags] <command> [args]

Commands:
  queue <kind> <type> <id> [json|@file]   queue a create|update|delete|patch operation
  sync                                    drain the pending queue against the server
  status                                  show pending/failed/conflicted counts
  conflicts [resolved]                    list unresolved (or resolved) conflicts
  resolve <conflict-id> <strategy> [@file] resolve a conflict (local-wins|remote-wins|merge)
  retry-failed                            move failed operations back to pending
  export <file>                           write the full sync state to a file
  import <file>                           restore sync state from a file
  clear                                   wipe all local sync state

Flags are listed with: fhirsync -help`)
}

// ReadPassphrase obtains the at-rest encryption passphrase: from
// FHIRSYNC_PASSPHRASE when set, otherwise interactively.
func ReadPassphrase() (string, error) {
	if p := os.Getenv("FHIRSYNC_PASSPHRASE"); p != "" {
		return p, nil
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("passphrase cannot be empty")
	}

	return string(raw), nil
}

// RunQueue handles: queue <kind> <type> <id> [json|@file]
func RunQueue(ctx context.Context, svc *sync.Service, args []string, out io.Writer) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: queue <kind> <type> <id> [json|@file]")
	}

	kind := models.OperationKind(args[0])
	resourceType, resourceID := args[1], args[2]

	var payload json.RawMessage
	if len(args) > 3 {
		raw, err := readArgOrFile(args[3])
		if err != nil {
			return err
		}
		if !json.Valid(raw) {
			return fmt.Errorf("payload is not valid JSON")
		}
		payload = raw
	}

	id, err := svc.QueueOperation(ctx, kind, resourceType, resourceID, payload)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "queued %s\n", id)
	return nil
}

// RunSync handles: sync
func RunSync(ctx context.Context, svc *sync.Service, out io.Writer) error {
	if err := svc.Sync(ctx); err != nil {
		return err
	}

	status, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "sync complete: %d pending, %d failed, %d conflicted\n",
		status.PendingChanges, status.FailedChanges, status.ConflictedChanges)
	return nil
}

// RunStatus handles: status
func RunStatus(ctx context.Context, svc *sync.Service, out io.Writer) error {
	status, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	online := "offline"
	if status.IsOnline {
		online = "online"
	}

	fmt.Fprintf(out, "network:    %s\n", online)
	fmt.Fprintf(out, "pending:    %d\n", status.PendingChanges)
	fmt.Fprintf(out, "failed:     %d\n", status.FailedChanges)
	fmt.Fprintf(out, "conflicted: %d\n", status.ConflictedChanges)
	if !status.LastSyncAt.IsZero() {
		fmt.Fprintf(out, "last sync:  %s\n", status.LastSyncAt.Format("2006-01-02 15:04:05"))
	}
	for _, e := range status.Errors {
		fmt.Fprintf(out, "error: %s %s/%s: %s\n", e.OperationID, e.ResourceType, e.ResourceID, e.Message)
	}

	return nil
}

// RunConflicts handles: conflicts [resolved]
func RunConflicts(ctx context.Context, svc *sync.Service, args []string, out io.Writer) error {
	resolved := len(args) > 0 && args[0] == "resolved"

	conflicts, err := svc.Conflicts(ctx, resolved)
	if err != nil {
		return err
	}

	if len(conflicts) == 0 {
		fmt.Fprintln(out, "no conflicts")
		return nil
	}

	for _, c := range conflicts {
		line := fmt.Sprintf("%s  %s/%s  local=%s remote=%s",
			c.ID, c.ResourceType, c.ResourceID, c.LocalVersion, c.RemoteVersion)
		if c.Resolved() {
			line += fmt.Sprintf("  resolved=%s", c.Resolution.Strategy)
		}
		fmt.Fprintln(out, line)
	}

	return nil
}

// RunResolve handles: resolve <conflict-id> <strategy> [@file]
func RunResolve(ctx context.Context, svc *sync.Service, args []string, out io.Writer) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: resolve <conflict-id> <strategy> [@file]")
	}

	res := models.Resolution{Strategy: models.ResolutionStrategy(args[1])}

	if len(args) > 2 {
		raw, err := readArgOrFile(args[2])
		if err != nil {
			return err
		}
		if !json.Valid(raw) {
			return fmt.Errorf("merged resource is not valid JSON")
		}
		res.WinningResource = raw
	}

	if err := svc.ResolveConflict(ctx, args[0], res); err != nil {
		return err
	}

	fmt.Fprintln(out, "resolved")
	return nil
}

// RunRetryFailed handles: retry-failed
func RunRetryFailed(ctx context.Context, svc *sync.Service, out io.Writer) error {
	n, err := svc.RetryFailed(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "requeued %d operations\n", n)
	return nil
}

// RunExport handles: export <file>
func RunExport(ctx context.Context, svc *sync.Service, path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("usage: export <file>")
	}

	data, err := svc.Export(ctx)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync data: %w", err)
	}

	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Fprintf(out, "exported %d pending operations\n", len(data.PendingOperations))
	return nil
}

// RunImport handles: import <file>
func RunImport(ctx context.Context, svc *sync.Service, path string, out io.Writer) error {
	if path == "" {
		return fmt.Errorf("usage: import <file>")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var data models.SyncMetadata
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	result, err := svc.Import(ctx, &data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "imported %d operations, %d versions, %d conflicts\n",
		result.Operations, result.Versions, result.Conflicts)
	for _, msg := range result.Quarantined {
		fmt.Fprintf(out, "quarantined: %s\n", msg)
	}

	return nil
}

// RunClear handles: clear
func RunClear(ctx context.Context, svc *sync.Service, out io.Writer) error {
	if err := svc.Clear(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, "local sync state cleared")
	return nil
}

// readArgOrFile returns the argument bytes, reading from a file when the
// argument is @-prefixed.
func readArgOrFile(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "@") {
		raw, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return raw, nil
	}
	return []byte(arg), nil
}
