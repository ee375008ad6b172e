package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/lmgen/compiler"
	"github.com/syssam/lmgen/compiler/load"
)

// generateOptions are the flags of the generate and watch commands.
type generateOptions struct {
	*rootOptions

	target        string
	pkg           string
	header        string
	dialects      []string
	features      []string
	inverse       string
	datasource    string
	datasourceURL string
	client        bool
	clientOutput  string
	cache         string
	noCache       bool
	workers       int
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.target, "target", "o", "", "output directory (default: next to each input)")
	f.StringVar(&o.pkg, "package", "", "package name of the Go output")
	f.StringVar(&o.header, "header", "", "comment written at the top of every output")
	f.StringSliceVarP(&o.dialects, "dialect", "d", nil, "dialects to generate: prisma, go (default prisma)")
	f.StringSliceVar(&o.features, "feature", nil, "features to enable: doc-comments, relationship-registry")
	f.StringVar(&o.inverse, "inverse-naming", "", "pluralization of list inverses: suffix or inflect")
	f.StringVar(&o.datasource, "datasource", "", "datasource provider, e.g. postgresql")
	f.StringVar(&o.datasourceURL, "datasource-url", "", "datasource URL or environment variable")
	f.BoolVar(&o.client, "client", false, "emit the Prisma client generator block")
	f.StringVar(&o.clientOutput, "client-output", "", "output directory of the Prisma client")
	f.StringVar(&o.cache, "cache", "", "path of the generation cache")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the generation cache")
	f.IntVar(&o.workers, "workers", 0, "files compiled in parallel (default GOMAXPROCS)")
}

// merge returns the config file overridden by the flags set on cmd.
func (o *generateOptions) merge(cmd *cobra.Command) (*Config, error) {
	c, err := o.load()
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("target") {
		c.Target = o.target
	}
	if changed("package") {
		c.Package = o.pkg
	}
	if changed("header") {
		c.Header = o.header
	}
	if changed("dialect") {
		c.Dialects = o.dialects
	}
	if changed("feature") {
		c.Features = o.features
	}
	if changed("inverse-naming") {
		c.InverseNaming = o.inverse
	}
	if changed("datasource") || changed("datasource-url") {
		ds := &DatasourceSpec{}
		if c.Datasource != nil {
			*ds = *c.Datasource
		}
		if changed("datasource") {
			ds.Provider = o.datasource
		}
		if changed("datasource-url") {
			ds.URL = o.datasourceURL
		}
		c.Datasource = ds
	}
	if changed("client") || changed("client-output") {
		cl := &ClientSpec{}
		if c.Client != nil {
			*cl = *c.Client
		}
		if changed("client-output") {
			cl.Output = o.clientOutput
		}
		c.Client = cl
		if changed("client") && !o.client {
			c.Client = nil
		}
	}
	if changed("cache") {
		c.Cache.Path = o.cache
	}
	if o.noCache {
		c.Cache.Path = ""
	}
	if changed("workers") {
		c.Workers = o.workers
	}
	return c, nil
}

// compiler builds the compiler configured by the config file and flags.
func (o *generateOptions) compiler(cmd *cobra.Command) (*compiler.Compiler, error) {
	c, err := o.merge(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := c.GenConfig()
	if err != nil {
		return nil, err
	}
	dialects, err := c.dialects()
	if err != nil {
		return nil, err
	}
	log, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithDialects(dialects...),
		compiler.WithLogger(log),
		compiler.WithWorkers(c.Workers),
	}
	if cache := c.cache(); cache != nil {
		opts = append(opts, compiler.WithCache(cache, c.Cache.TTL))
	}
	return compiler.New(cfg, opts...), nil
}

// NewGenerateCmd builds the `generate` command.
func NewGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Generate schemas from logical model files",
		Long: `Generate validates the given model files and writes one output per file
and dialect. Directories contribute their *.yaml and *.yml files.`,
		Example: "  lmgen generate models/\n  lmgen generate -d prisma,go -o gen/ --datasource postgresql models/tracker.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.compiler(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), c, paths(args))
		},
	}
	opts.register(cmd)
	return cmd
}

// run compiles the paths once and prints the report.
func run(ctx context.Context, w io.Writer, c *compiler.Compiler, paths []string) error {
	results, err := c.Generate(ctx, paths...)
	if results == nil {
		return err
	}
	if printGeneration(w, results) > 0 {
		return errFailed
	}
	return nil
}

// printGeneration prints one entry per file. It returns the number of
// failed files.
func printGeneration(w io.Writer, results []*compiler.Result) int {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			fmt.Fprintf(w, "Error processing %s:\n", r.Input)
			for _, line := range strings.Split(report(r.Err), "\n") {
				fmt.Fprintf(w, "     - %s\n", line)
			}
			continue
		}
		status := "Generated"
		if r.Written == 0 {
			status = "Up to date"
		}
		for _, out := range r.Outputs {
			fmt.Fprintf(w, "%s: %s\n", status, out)
		}
	}
	if failed == 0 {
		fmt.Fprintln(w, "Generation process completed.")
	} else {
		fmt.Fprintf(w, "Generation finished with errors in %d file(s).\n", failed)
	}
	return failed
}

// report formats a file error: validation findings one per line, other
// errors as is.
func report(err error) string {
	var le *load.Error
	if errors.As(err, &le) {
		msgs := make([]string, len(le.Errs))
		for i, e := range le.Errs {
			msgs[i] = load.Message(e)
		}
		return strings.Join(msgs, "\n")
	}
	return err.Error()
}
