// Package compiler compiles logical model files into the documents of one
// or more dialects and writes them to disk.
//
//	c := compiler.New(cfg,
//		compiler.WithDialects(prisma.New(), golang.New()),
//		compiler.WithCache(compiler.NewFileCache(".lmgen.cache"), 0),
//	)
//	results, err := c.Generate(ctx, "models/")
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/compiler/gen"
	"github.com/syssam/lmgen/compiler/gen/prisma"
	"github.com/syssam/lmgen/compiler/load"
)

// Compiler compiles model files. It is safe for concurrent use.
type Compiler struct {
	config   *gen.Config
	dialects []gen.Dialect
	cache    Cache
	ttl      time.Duration
	logger   *slog.Logger
	workers  int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithDialects sets the dialects rendered for every input. The default is
// the Prisma dialect alone.
func WithDialects(dialects ...gen.Dialect) Option {
	return func(c *Compiler) {
		c.dialects = dialects
	}
}

// WithCache enables the generation cache. Entries expire after ttl, or
// never if ttl is 0.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Compiler) {
		c.cache, c.ttl = cache, ttl
	}
}

// WithLogger sets the logger of per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers sets the number of files compiled in parallel.
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New returns a compiler for the given configuration. A nil configuration
// uses the defaults of gen.NewConfig.
func New(cfg *gen.Config, opts ...Option) *Compiler {
	if cfg == nil {
		cfg = gen.MustNewConfig()
	}
	c := &Compiler{
		config:   cfg,
		dialects: []gen.Dialect{prisma.New()},
		logger:   slog.New(slog.DiscardHandler),
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of compiling one input file.
type Result struct {
	// Input is the model file.
	Input string
	// Outputs holds the paths of the generated files in dialect order.
	Outputs []string
	// Cached holds the names of the dialects served from the cache.
	Cached []string
	// Written and Unchanged count the output files that were written and
	// those left untouched because their content did not change.
	Written   int
	Unchanged int
	// Warnings holds the validation warnings of the model.
	Warnings []string
	// Err is set if the file failed to compile.
	Err error
}

// OK reports whether the file compiled.
func (r *Result) OK() bool { return r.Err == nil }

// Check loads and validates the given files and directories without
// generating anything. Valid models are also resolved into their graph, so
// naming collisions and invalid identifiers are reported as well. Each
// result carries the findings of one file.
func Check(paths ...string) ([]*load.Result, error) {
	files, err := load.Files(paths...)
	if err != nil {
		return nil, err
	}
	results := make([]*load.Result, 0, len(files))
	var errs []error
	for _, path := range files {
		m, res, err := load.Load(path)
		if err != nil {
			res = &load.Result{File: path, Errors: []string{errorMessage(err)}}
			errs = append(errs, err)
			results = append(results, res)
			continue
		}
		if res.Valid() {
			if _, err := gen.NewGraph(gen.MustNewConfig(), m); err != nil {
				res.Add(err)
			}
		}
		if err := res.Err(); err != nil {
			errs = append(errs, err)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Generate compiles the given files and directories. Directories contribute
// their YAML files. Files are compiled in parallel and the results are
// returned in input order. The error joins the errors of all failed files.
// Nothing is compiled if two inputs would write the same output file.
func (c *Compiler) Generate(ctx context.Context, paths ...string) ([]*Result, error) {
	files, err := load.Files(paths...)
	if err != nil {
		return nil, err
	}
	if err := c.checkOutputs(files); err != nil {
		return nil, err
	}
	results := make([]*Result, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)
	for i, path := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.compile(ctx, path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// outputDir returns the directory the outputs of the given input go to.
func (c *Compiler) outputDir(path string) string {
	if dir := c.config.Output().Target; dir != "" {
		return dir
	}
	return filepath.Dir(path)
}

// outputs returns the output paths of the given input in dialect order.
func (c *Compiler) outputs(path string) []string {
	dir, base := c.outputDir(path), baseName(path)
	outs := make([]string, len(c.dialects))
	for i, d := range c.dialects {
		outs[i] = filepath.Join(dir, base+d.Ext())
	}
	return outs
}

// checkOutputs fails with a naming collision for every output path claimed
// by more than one input.
func (c *Compiler) checkOutputs(files []string) error {
	var (
		errs []error
		seen = make(map[string]string)
	)
	for _, path := range files {
		for _, out := range c.outputs(path) {
			if prev, ok := seen[out]; ok {
				errs = append(errs, lmgen.NewNamingCollisionError(filepath.Dir(out), "output file", filepath.Base(out), prev, path))
				continue
			}
			seen[out] = path
		}
	}
	return errors.Join(errs...)
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// compile runs the whole pipeline for one file.
func (c *Compiler) compile(ctx context.Context, path string) *Result {
	start := time.Now()
	log := c.logger.With("file", path)
	res := &Result{Input: path}
	fail := func(err error) *Result {
		res.Err = err
		log.Error("compile failed", "error", err)
		return res
	}
	log.Debug("compile start")

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("compiler: read %s: %w", path, err))
	}
	m, err := load.Parse(data)
	if err != nil {
		return fail(&load.Error{File: path, Errs: []error{err}})
	}
	v := load.Validate(m)
	v.File = path
	res.Warnings = v.Warnings
	for _, w := range v.Warnings {
		log.Warn("validation warning", "warning", w)
	}
	if err := v.Err(); err != nil {
		return fail(err)
	}

	var (
		base    = baseName(path)
		files   = make([]*gen.File, len(c.dialects))
		missing []int
		keys    = make([]string, len(c.dialects))

		fingerprint = c.config.Fingerprint()
	)
	for i, d := range c.dialects {
		keys[i] = CacheKey{Dialect: d.Name(), Name: base, Fingerprint: fingerprint, Input: data}.String()
		f, err := c.cached(ctx, keys[i])
		switch {
		case err != nil:
			log.Warn("cache read failed", "dialect", d.Name(), "error", err)
			missing = append(missing, i)
		case f == nil:
			missing = append(missing, i)
		default:
			files[i] = f
			res.Cached = append(res.Cached, d.Name())
			log.Debug("cache hit", "dialect", d.Name())
		}
	}
	if len(missing) > 0 {
		g, err := gen.NewGraph(c.config, m)
		if err != nil {
			return fail(err)
		}
		dialects := make([]gen.Dialect, len(missing))
		for j, i := range missing {
			dialects[j] = c.dialects[i]
		}
		rendered, err := gen.Generate(ctx, g, base, dialects...)
		if err != nil {
			return fail(err)
		}
		for j, i := range missing {
			files[i] = rendered[j]
			if err := c.store(ctx, keys[i], rendered[j]); err != nil {
				log.Warn("cache write failed", "dialect", rendered[j].Dialect, "error", err)
			}
		}
	}

	dir := c.outputDir(path)
	w := gen.NewWriter(dir)
	if err := w.WriteAll(ctx, files...); err != nil {
		return fail(err)
	}
	for _, f := range files {
		res.Outputs = append(res.Outputs, filepath.Join(dir, f.Name))
	}
	metrics := w.Metrics()
	res.Written, res.Unchanged = metrics.FilesWritten, metrics.FilesUnchanged
	log.Info("compiled",
		"outputs", res.Outputs,
		"written", res.Written,
		"unchanged", res.Unchanged,
		"cached", len(res.Cached),
		"duration", time.Since(start),
	)
	return res
}

// cachedFile is the cache representation of a rendered file.
type cachedFile struct {
	Dialect string `msgpack:"dialect"`
	Name    string `msgpack:"name"`
	Data    []byte `msgpack:"data"`
}

func (c *Compiler) cached(ctx context.Context, key string) (*gen.File, error) {
	if c.cache == nil {
		return nil, nil
	}
	data, err := c.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}
	var cf cachedFile
	if err := msgpack.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("compiler: decode cache entry: %w", err)
	}
	return &gen.File{Dialect: cf.Dialect, Name: cf.Name, Data: cf.Data}, nil
}

func (c *Compiler) store(ctx context.Context, key string, f *gen.File) error {
	if c.cache == nil {
		return nil
	}
	data, err := msgpack.Marshal(&cachedFile{Dialect: f.Dialect, Name: f.Name, Data: f.Data})
	if err != nil {
		return fmt.Errorf("compiler: encode cache entry: %w", err)
	}
	return c.cache.Set(ctx, key, data, c.ttl)
}

// errorMessage formats a loader error without its "load: " prefix.
func errorMessage(err error) string {
	var le *load.Error
	if errors.As(err, &le) && len(le.Errs) == 1 {
		return load.Message(le.Errs[0])
	}
	return err.Error()
}
