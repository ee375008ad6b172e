package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "v0.1.0"

// errFailed is returned after a report when at least one file failed. The
// failures have already been printed.
var errFailed = errors.New("lmgen: some files failed")

// rootOptions are the flags shared by all commands.
type rootOptions struct {
	config    string
	verbose   bool
	logFormat string
}

// NewRootCmd builds the top-level `lmgen` command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lmgen",
		Short:         "lmgen compiles logical data models into Prisma schemas and Go models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default "+DefaultConfigFile+" if present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewGenerateCmd(opts))
	root.AddCommand(NewWatchCmd(opts))
	root.AddCommand(NewVersionCmd())
	return root
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(Version)
		},
	}
}

// logger returns the logger configured by the root flags. Logs go to w.
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(o.logFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q; use text or json", o.logFormat)
	}
}

// load reads the config file named by --config, or the default one.
func (o *rootOptions) load() (*Config, error) {
	if o.config != "" {
		return LoadConfig(o.config, true)
	}
	return LoadConfig(DefaultConfigFile, false)
}

// paths returns the command arguments, or the working directory.
func paths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
