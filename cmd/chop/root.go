package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/chop/internal/config"
	"github.com/raphi011/chop/internal/git"
	"github.com/raphi011/chop/internal/log"
	"github.com/raphi011/chop/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg     *config.Config
	workDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chop",
	Short: "Split pending changes into semantically grouped commits",
	Long: `chop splits the uncommitted changes of a repository into coherent
commits: one commit per change group, each with a conventional commit
message, committed on a working branch that is merged back into the
target branch.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed by now; the logger must see their final values.
		attachLogger(cmd)

		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if err := git.CheckGit(); err != nil {
			return err
		}
		if !git.IsInsideRepoPath(cmd.Context(), workDir) {
			return fmt.Errorf("not inside a git repository")
		}

		// Porcelain paths are relative to the repository root; run every
		// git operation from there no matter where chop was invoked.
		top, err := git.TopLevel(cmd.Context(), workDir)
		if err != nil {
			return err
		}
		workDir = top
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chop: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Printer on stdout for primary data. The stderr logger is attached in
	// PersistentPreRunE, after the flags it depends on are parsed.
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'chop -h' for help")
		os.Exit(1)
	}
}

// attachLogger builds the stderr logger from the parsed --verbose/--quiet
// values and attaches it to the command's context.
func attachLogger(cmd *cobra.Command) {
	ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
	cmd.SetContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(
		newPlanCmd(),
		newExecuteCmd(),
		newAutoCmd(),
		newTriggerCmd(),
	)
}
