package gen

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// File is a rendered output document.
type File struct {
	// Dialect that rendered the file.
	Dialect string
	// Name of the file, relative to the output directory.
	Name string
	// Data is the file content.
	Data []byte
}

// Generate renders the graph with every dialect in parallel. The files are
// named after base and returned in dialect order.
func Generate(ctx context.Context, g *Graph, base string, dialects ...Dialect) ([]*File, error) {
	if len(dialects) == 0 {
		return nil, NewConfigError("Dialects", nil, "no dialect to generate")
	}
	files := make([]*File, len(dialects))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, d := range dialects {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			name := base + d.Ext()
			data, err := d.Generate(g)
			if err != nil {
				return NewGenerationError(d.Name(), name, "render", err)
			}
			files[i] = &File{Dialect: d.Name(), Name: name, Data: data}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// String implements the fmt.Stringer interface.
func (f *File) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", f.Name, f.Dialect, len(f.Data))
}
