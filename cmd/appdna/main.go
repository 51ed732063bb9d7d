// Package main implements the appdna command: validation, canonical
// formatting and snapshot history for AppDNA application definitions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/appdna/appdna/internal/app"
	"github.com/appdna/appdna/internal/config"
	apperrors "github.com/appdna/appdna/internal/errors"
	"github.com/appdna/appdna/internal/validate"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		envFile     string
		workspace   string
		resources   string
		dataDir     string
		verbose     bool
		showVersion bool
		showHelp    bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&envFile, "env", ".env", "Path to a .env file with APPDNA_* variables")
	flag.StringVar(&workspace, "workspace", "", "Workspace root searched first for app-dna.schema.json")
	flag.StringVar(&resources, "resources", "", "Directory holding the shipped app-dna.schema.json")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for the snapshot catalog and local storage")
	flag.BoolVar(&verbose, "verbose", false, "Print pipeline statistics on exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showHelp, "help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "appdna - AppDNA application definition tool\n\n")
		fmt.Fprintf(os.Stderr, "Usage: appdna [options] <command> [arguments]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  validate <file>                 Check a document against the schema\n")
		fmt.Fprintf(os.Stderr, "  fmt [-o out] <file>             Rewrite a document in canonical form\n")
		fmt.Fprintf(os.Stderr, "  snapshot [-label l] <file>      Store a snapshot of a document\n")
		fmt.Fprintf(os.Stderr, "  history <file>                  List snapshots of a document\n")
		fmt.Fprintf(os.Stderr, "  restore <snapshot-id> <out>     Write a snapshot to a file\n")
		fmt.Fprintf(os.Stderr, "  prune [-keep n] <file>          Delete all but the newest snapshots\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_WORKSPACE_ROOT   Workspace root\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_RESOURCE_DIR     Shipped resources directory\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_DATA_DIR         Base directory for data files\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_STORAGE_TYPE     Snapshot storage type (local, s3)\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_S3_*             S3 bucket, region, endpoint, path style\n")
		fmt.Fprintf(os.Stderr, "  APPDNA_AWS_*            AWS access key id and secret access key\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("appdna version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(configFile, envFile, workspace, resources, dataDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := run(ctx, application, args[0], args[1:])
	stop()

	if verbose {
		printStats(application)
	}
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, a *app.App, cmd string, args []string) int {
	switch cmd {
	case "validate":
		return runValidate(ctx, a, args)
	case "fmt":
		return withHistory(ctx, a, func() int { return runFmt(ctx, a, args) })
	case "snapshot":
		return withHistory(ctx, a, func() int { return runSnapshot(ctx, a, args) })
	case "history":
		return withHistory(ctx, a, func() int { return runHistory(ctx, a, args) })
	case "restore":
		return withHistory(ctx, a, func() int { return runRestore(ctx, a, args) })
	case "prune":
		return withHistory(ctx, a, func() int { return runPrune(ctx, a, args) })
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		return 2
	}
}

// withHistory opens the snapshot catalog around fn.
func withHistory(ctx context.Context, a *app.App, fn func() int) int {
	if err := a.Open(ctx); err != nil {
		log.Printf("Failed to open snapshot history: %v", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Failed to close snapshot history: %v", err)
		}
	}()
	return fn()
}

func runValidate(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: appdna validate <file>")
		return 2
	}
	path := fs.Arg(0)

	res, err := a.Validate(ctx, path)
	if err != nil {
		return report(os.Stderr, err)
	}
	if !res.Valid {
		fmt.Printf("%s is invalid (%d error(s)):\n%s\n", path, len(res.Issues), res.Summary())
		return 1
	}
	fmt.Printf("%s is valid\n", path)
	return 0
}

func runFmt(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ExitOnError)
	out := fs.String("o", "", "Output file (default: rewrite in place)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: appdna fmt [-o out] <file>")
		return 2
	}
	in := fs.Arg(0)
	if *out == "" {
		*out = in
	}

	if err := a.Format(ctx, in, *out); err != nil {
		return report(os.Stderr, err)
	}
	fmt.Printf("formatted %s\n", *out)
	return 0
}

func runSnapshot(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	label := fs.String("label", "", "Note stored with the snapshot")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: appdna snapshot [-label l] <file>")
		return 2
	}

	rec, err := a.Snapshot(ctx, fs.Arg(0), *label)
	if err != nil {
		return report(os.Stderr, err)
	}
	fmt.Printf("snapshot %s (%d bytes)\n", rec.SnapshotID, rec.SizeBytes)
	return 0
}

func runHistory(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: appdna history <file>")
		return 2
	}

	records, err := a.History(ctx, fs.Arg(0))
	if err != nil {
		return report(os.Stderr, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SNAPSHOT\tCREATED\tSIZE\tFINGERPRINT\tLABEL")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%016x\t%s\n",
			rec.SnapshotID, rec.CreatedAt.Format(time.RFC3339), rec.SizeBytes, rec.Fingerprint, rec.Label)
	}
	w.Flush()
	return 0
}

func runRestore(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: appdna restore <snapshot-id> <out>")
		return 2
	}

	if err := a.Restore(ctx, fs.Arg(0), fs.Arg(1)); err != nil {
		return report(os.Stderr, err)
	}
	fmt.Printf("restored %s to %s\n", fs.Arg(0), fs.Arg(1))
	return 0
}

func runPrune(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	keep := fs.Int("keep", 10, "Number of newest snapshots to keep")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: appdna prune [-keep n] <file>")
		return 2
	}

	deleted, err := a.Prune(ctx, fs.Arg(0), *keep)
	if err != nil {
		return report(os.Stderr, err)
	}
	fmt.Printf("pruned %d snapshot(s)\n", len(deleted))
	return 0
}

// report prints err to w and returns the exit code for it.
func report(w io.Writer, err error) int {
	var failed *validate.FailedError
	if errors.As(err, &failed) {
		fmt.Fprintf(w, "%s is invalid (%d error(s)):\n%s\n",
			failed.DocumentPath, len(failed.Issues), failed.Summary)
		return 1
	}

	fmt.Fprintf(w, "%s: %v\n", errorHeading(apperrors.GetCategory(err)), err)
	if apperrors.IsRetryable(err) {
		fmt.Fprintln(w, "the failure may be temporary; retrying the command can succeed")
	}
	return 1
}

func errorHeading(c apperrors.ErrorCategory) string {
	switch c {
	case apperrors.ErrCategorySchema:
		return "schema error"
	case apperrors.ErrCategoryDocument:
		return "document error"
	case apperrors.ErrCategoryPersist:
		return "write error"
	case apperrors.ErrCategoryStorage:
		return "snapshot storage error"
	}
	return "error"
}

func printStats(a *app.App) {
	stats := a.Stats()
	for _, s := range stats.Stages() {
		log.Printf("stats: %s runs=%d failures=%d last=%v codes=%v",
			s.Stage, s.Runs, s.Failures, s.LastDuration, s.FailureCodes)
	}
	for _, p := range stats.GetTopIssuePaths(5) {
		log.Printf("stats: issue path %s x%d", p.Path, p.Frequency)
	}
}

// loadConfig loads configuration from file, environment, and command line flags.
func loadConfig(configFile, envFile, workspace, resources, dataDir string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if envFile != "" {
		if err := config.LoadDotEnv(envFile); err != nil {
			return nil, err
		}
	}

	// Start with defaults or load from file
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	// Apply environment variables
	config.LoadFromEnv(cfg)

	// Apply command line flags (highest priority)
	if workspace != "" {
		cfg.WorkspaceRoot = workspace
	}
	if resources != "" {
		cfg.ResourceDir = resources
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}
