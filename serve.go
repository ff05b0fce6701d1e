package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/phobologic/sectionfold/internal/lspserver"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdin and stdout",
		Long: `Run a language server speaking LSP over stdin and stdout. It answers
textDocument/foldingRange, textDocument/documentSymbol and the custom
sectionfold/decorations request. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := a.logger()
			srv := lspserver.New(lspserver.Options{
				Version: version,
				Config:  a.loadConfig(cmd.Flags()),
				Logger:  logger,
				Verbose: a.verbose,
			})
			if a.verbose {
				logger.Printf("serving on stdio")
			}
			return srv.Serve(cmd.Context(), stdio{Reader: a.stdin, Writer: a.stdout})
		},
	}
}

// stdio joins the process streams into the connection the server reads.
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }
