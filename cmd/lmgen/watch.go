package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/lmgen/compiler"
	"github.com/syssam/lmgen/compiler/load"
)

// DefaultDebounce is the quiet period after the last file event before a
// regeneration starts.
const DefaultDebounce = 200 * time.Millisecond

// NewWatchCmd builds the `watch` command.
func NewWatchCmd(root *rootOptions) *cobra.Command {
	var (
		opts     = &generateOptions{rootOptions: root}
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Regenerate schemas when model files change",
		Long: `Watch generates the given model files once, then again every time one of
them is written, created or renamed. It runs until interrupted.`,
		Example: "  lmgen watch models/\n  lmgen watch --debounce 1s -d prisma,go models/",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.compiler(cmd)
			if err != nil {
				return err
			}
			w, err := newWatcher(paths(args))
			if err != nil {
				return err
			}
			defer w.Close()
			return w.run(cmd.Context(), cmd.OutOrStdout(), c, debounce)
		},
	}
	opts.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "quiet period before regenerating")
	return cmd
}

// watcher watches model files and the directories holding them. Editors
// often replace files on save, so files are watched through their parent
// directory and events are filtered by name.
type watcher struct {
	*fsnotify.Watcher
	paths []string
	// dirs holds the watched directories. files holds the explicitly
	// watched files; a directory listed in dirs only by way of a file does
	// not match its other children.
	dirs  map[string]bool
	files map[string]bool
}

func newWatcher(paths []string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &watcher{Watcher: fw, paths: paths, dirs: make(map[string]bool), files: make(map[string]bool)}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		dir := filepath.Clean(p)
		if !info.IsDir() {
			w.files[dir] = true
			dir = filepath.Dir(dir)
		} else {
			w.dirs[dir] = true
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// relevant reports whether the event touches a watched model file.
func (w *watcher) relevant(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(e.Name)
	if w.files[name] {
		return true
	}
	return w.dirs[filepath.Dir(name)] && load.IsModelFile(name)
}

// run generates once and then on every batch of relevant events until ctx
// is done. Generation failures are reported and do not stop the watch.
func (w *watcher) run(ctx context.Context, out io.Writer, c *compiler.Compiler, debounce time.Duration) error {
	generate := func() {
		if err := run(ctx, out, c, w.paths); err != nil && !errors.Is(err, errFailed) {
			fmt.Fprintln(out, "Error:", err)
		}
	}
	generate()
	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if w.relevant(e) {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, "Watch error:", err)
		case <-timer.C:
			fmt.Fprintln(out, "Change detected, regenerating...")
			generate()
		}
	}
}
