// sectionfold computes %% section folds and structural outlines for source
// files, as a language server or a one-shot scanner.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phobologic/sectionfold/internal/config"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// app carries the process streams and global flags shared by subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sectionfold",
		Short: "Section folding and outlines for %% marked source files",
		Long: `sectionfold finds "%%" section headers in comments, computes folding ranges
from sections and indentation, and builds a nested outline of sections and
C-family structural symbols.

Run "sectionfold serve" from an editor to use it as a language server, or
"sectionfold scan" to print a report for files and directories.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("sectionfold {{.Version}}\n")

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log each request and file to stderr")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.scanCmd())
	root.AddCommand(a.initCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func (a *app) logger() *log.Logger {
	return log.New(a.stderr, "sectionfold: ", 0)
}

// loadConfig resolves settings for a subcommand. A bad config file is
// reported and the remaining layers are used.
func (a *app) loadConfig(flags *pflag.FlagSet) config.Config {
	cfg, err := config.Load(a.configPath, flags)
	if err != nil {
		a.logger().Printf("warning: %v", err)
	}
	return cfg
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sectionfold version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(a.stdout, "sectionfold %s\n", version)
		},
	}
}
