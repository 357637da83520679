package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-catalog/internal/logging"
	"library-catalog/library"
)

// rootOptions holds the command line flags.
type rootOptions struct {
	ConfigPath string
	SeedPath   string
	Backend    string // "memory" | "sqlite"
	Format     string // "text" | "json"
	LogLevel   string
	LogJSON    bool

	StandardDays  int
	PremiumDays   int
	StandardLimit int
	PremiumLimit  int
}

var (
	validBackends = []string{"memory", "sqlite"}
	validFormats  = []string{"text", "json"}
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}
	defaults := library.DefaultPolicy()

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Interactive in-memory library catalog",
		Long: "Manage books, members and loans in an in-memory catalog.\n" +
			"Nothing is kept once the session ends; use --seed to start from a YAML catalog.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !oneOf(opts.Backend, validBackends) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, validBackends)
			}
			if !oneOf(opts.Format, validFormats) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, opts, in, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "YAML loan policy file")
	flags.StringVar(&opts.SeedPath, "seed", "", "YAML catalog to load at startup")
	flags.StringVar(&opts.Backend, "backend", "memory", "registry backend (memory|sqlite)")
	flags.StringVar(&opts.Format, "format", "text", "output format for reports (text|json)")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	flags.BoolVar(&opts.LogJSON, "log-json", false, "log as JSON")
	flags.IntVar(&opts.StandardDays, "standard-days", defaults.StandardLoanDays, "loan duration in days for Standard members")
	flags.IntVar(&opts.PremiumDays, "premium-days", defaults.PremiumLoanDays, "loan duration in days for Premium members")
	flags.IntVar(&opts.StandardLimit, "standard-limit", defaults.StandardLoanLimit, "active loan limit for Standard members")
	flags.IntVar(&opts.PremiumLimit, "premium-limit", defaults.PremiumLoanLimit, "active loan limit for Premium members")

	return cmd
}

func runSession(cmd *cobra.Command, opts *rootOptions, in io.Reader, out io.Writer) error {
	logger := logging.New(logging.Config{
		AppName: "library",
		Level:   opts.LogLevel,
		JSON:    opts.LogJSON,
		Output:  cmd.ErrOrStderr(),
	})

	policy, err := resolvePolicy(cmd, opts)
	if err != nil {
		return err
	}

	libOpts := []library.Option{library.WithLogger(logger)}
	if opts.Backend == "sqlite" {
		db, err := library.NewDatabase()
		if err != nil {
			return err
		}
		libOpts = append(libOpts, library.WithStore(db))
	}

	manager, err := library.NewLibraryManager(policy, libOpts...)
	if err != nil {
		return err
	}
	defer manager.Close()

	if opts.SeedPath != "" {
		rep, err := seedFromFile(manager, opts.SeedPath)
		if err != nil {
			return err
		}
		for _, reason := range rep.SkippedReasons {
			logger.Warn("seed entry skipped", "reason", reason)
		}
		fmt.Fprintf(out, "Loaded %d book(s) and %d member(s) from %s.\n", rep.BooksAdded, rep.MembersAdded, opts.SeedPath)
	}

	a := &app{
		mgr:    manager,
		sc:     bufio.NewScanner(in),
		out:    out,
		format: opts.Format,
		prompt: isTerminal(in),
	}
	a.run()
	return nil
}

// resolvePolicy layers the policy file and then explicitly set flags over
// the defaults.
func resolvePolicy(cmd *cobra.Command, opts *rootOptions) (library.Policy, error) {
	policy := library.DefaultPolicy()
	if opts.ConfigPath != "" {
		f, err := os.Open(filepath.Clean(opts.ConfigPath))
		if err != nil {
			return library.Policy{}, errors.Wrap(err, "open config")
		}
		defer f.Close()
		if policy, err = library.LoadPolicy(f); err != nil {
			return library.Policy{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("standard-days") {
		policy.StandardLoanDays = opts.StandardDays
	}
	if flags.Changed("premium-days") {
		policy.PremiumLoanDays = opts.PremiumDays
	}
	if flags.Changed("standard-limit") {
		policy.StandardLoanLimit = opts.StandardLimit
	}
	if flags.Changed("premium-limit") {
		policy.PremiumLoanLimit = opts.PremiumLimit
	}
	return policy, policy.Validate()
}

func seedFromFile(mgr *library.LibraryManager, path string) (library.SeedReport, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return library.SeedReport{}, errors.Wrap(err, "open seed")
	}
	defer f.Close()

	seed, err := library.LoadSeed(f)
	if err != nil {
		return library.SeedReport{}, err
	}
	return mgr.ApplySeed(seed)
}

// isTerminal reports whether r is an interactive terminal; prompts are only
// printed then.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func oneOf(s string, valid []string) bool {
	for _, v := range valid {
		if v == s {
			return true
		}
	}
	return false
}
