package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/exitcode"
	"taskflow/internal/kv"
	"taskflow/internal/notify"
	"taskflow/internal/service"
	"taskflow/internal/store"
)

// SlotFactory opens the slot the task list is persisted in.
type SlotFactory func(cfg *config.Config) (kv.Slot, error)

// SourceFactory creates the remote task source used by import.
type SourceFactory func(ctx context.Context, cfg *config.Config) (service.Source, error)

// OpenSlot is the default SlotFactory: the backend and path from config.
func OpenSlot(cfg *config.Config) (kv.Slot, error) {
	return kv.Open(cfg.Storage.Backend, cfg.Storage.Path)
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	slots    SlotFactory
	sources  SourceFactory

	// Now, if set, replaces the wall clock for the store and commands.
	Now func() time.Time

	// NewID, if set, replaces random task ids.
	NewID func() string
}

// NewDispatcher creates a dispatcher. A nil slots opens the configured
// backend; a nil sources only runs the credential pre-flight checks.
func NewDispatcher(registry *commands.Registry, slots SlotFactory, sources SourceFactory) *Dispatcher {
	if slots == nil {
		slots = OpenSlot
	}
	return &Dispatcher{
		registry: registry,
		slots:    slots,
		sources:  sources,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading dash left over means a flag after a positional argument
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.Level()}))

	notes := notify.NewCenter(cfg.Notify.DismissAfter, notify.WriterSink{Out: out, Err: errOut, Quiet: cfg.Quiet})
	defer notes.Close()

	env := &commands.Env{
		Config: cfg,
		Notes:  notes,
		Logger: logger,
		Now:    d.Now,
	}

	if cmd.NeedsAuth() {
		src, code := d.source(ctx, cfg, errOut)
		if code != exitcode.Success {
			return code
		}
		env.Source = src
	}

	if cmd.NeedsStore() {
		slot, err := d.slots(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage: %v\n", err)
			return exitcode.StorageError
		}
		defer slot.Close()

		env.Store = store.Open(ctx, slot, store.Options{
			Key:    cfg.Storage.Key,
			Clock:  d.Now,
			NewID:  d.NewID,
			Logger: logger,
		})
		logger.Debug("store opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "tasks", env.Store.Len())
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// source creates the remote source, or reports why it cannot.
func (d *Dispatcher) source(ctx context.Context, cfg *config.Config, errOut io.Writer) (service.Source, int) {
	if d.sources == nil {
		// No factory: report missing credentials in user-friendly form
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
			return nil, exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskflow login)")
			return nil, exitcode.AuthError
		}
		fmt.Fprintln(errOut, "error: backend error: no task source configured")
		return nil, exitcode.BackendError
	}

	src, err := d.sources(ctx, cfg)
	if err != nil {
		if errors.Is(err, service.ErrAuth) {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return nil, exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return nil, exitcode.BackendError
	}
	return src, exitcode.Success
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}
	return errStr
}
