package gen

// Dialect renders a resolved graph into one output document.
//
// Dialects only read the graph. A graph may be rendered by several
// dialects concurrently.
type Dialect interface {
	// Name returns the dialect name, e.g. "prisma".
	Name() string
	// Ext returns the suffix appended to the base name of the input file
	// to name the output file, e.g. ".prisma".
	Ext() string
	// Generate renders the graph.
	Generate(g *Graph) ([]byte, error)
}

// DialectFunc adapts a function to the Dialect interface.
type DialectFunc struct {
	DialectName string
	Suffix      string
	Fn          func(*Graph) ([]byte, error)
}

// Name implements Dialect.
func (d DialectFunc) Name() string { return d.DialectName }

// Ext implements Dialect.
func (d DialectFunc) Ext() string { return d.Suffix }

// Generate implements Dialect.
func (d DialectFunc) Generate(g *Graph) ([]byte, error) { return d.Fn(g) }
