package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/sectionfold/internal/config"
)

const (
	sentinelStart = "# sectionfold:start"
	sentinelEnd   = "# sectionfold:end"
)

func (a *app) initCmd() *cobra.Command {
	var dryRun, force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default settings to " + config.FileName,
		Long: `Write the default sectionfold settings to a config file. The settings are
wrapped in sentinel comments so they can be updated in place on later runs
without touching surrounding content. Creates the file if it does not exist.

path defaults to ./` + config.FileName + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runInit(args, dryRun, force)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	cmd.Flags().BoolVar(&force, "force", false, "replace the whole file instead of updating the sentinel block")
	return cmd
}

func (a *app) runInit(args []string, dryRun, force bool) error {
	section, err := generateSection(config.Default())
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if dryRun && len(args) == 0 {
		_, _ = fmt.Fprintln(a.stdout, section)
		return nil
	}

	path := config.FileName
	if len(args) > 0 {
		path = args[0]
	}

	var existing []byte
	if !force {
		existing, _ = os.ReadFile(path)
	}
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(a.stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(a.stderr, "wrote sectionfold settings to %s\n", path)
	return nil
}

// generateSection returns cfg as YAML wrapped in sentinel comments.
func generateSection(cfg config.Config) (string, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding settings: %w", err)
	}
	return sentinelStart + "\n" + strings.TrimRight(string(body), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}
	if content == "" {
		return section + "\n"
	}

	// Append, ensuring a blank line separator.
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
