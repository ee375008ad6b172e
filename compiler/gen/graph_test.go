package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/compiler/load"
	"github.com/syssam/lmgen/schema"
)

func parse(t testing.TB, doc string) *schema.Model {
	t.Helper()
	m, err := load.Parse([]byte(doc))
	require.NoError(t, err)
	return m
}

func graph(t testing.TB, doc string, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(MustNewConfig(opts...), parse(t, doc))
	require.NoError(t, err)
	return g
}

func edgeNames(t *Type) []string {
	names := make([]string, len(t.Edges))
	for i, e := range t.Edges {
		names[i] = e.Name
	}
	return names
}

func nodeNames(g *Graph) []string {
	names := make([]string, len(g.Nodes))
	for i, t := range g.Nodes {
		names[i] = t.Ident
	}
	return names
}

const projects = `schema_version: "1.0"
model_name: Projects
entities:
  Project:
    description: A research project.
    attributes:
      code: {type: String, primary_key: true}
      title: {type: String, required: true}
    relationships:
      datasets:
        target: Dataset
        cardinality: "1:N"
        attributes:
          role: {type: Enum, options: [owner, reader]}
  Dataset:
    attributes:
      name: {type: String, required: true}
`

func TestNewGraph(t *testing.T) {
	g := graph(t, projects)
	assert.Equal(t, []string{"Project", "Dataset"}, nodeNames(g))

	project, ok := g.Type("Project")
	require.True(t, ok)
	assert.Equal(t, "A research project.", project.Description)
	require.Len(t, project.Fields, 2)
	code, ok := project.Field("code")
	require.True(t, ok)
	assert.True(t, code.Unique)
	assert.False(t, code.Optional)
	assert.Equal(t, []string{"datasets"}, edgeNames(project))

	dataset, ok := g.Type("Dataset")
	require.True(t, ok)
	assert.Equal(t, []string{"datasetsProject"}, edgeNames(dataset))
	role, ok := dataset.Field("role")
	require.True(t, ok)
	assert.True(t, role.IsFlattened())
	assert.Equal(t, "datasets", role.Relationship)
	require.True(t, role.IsEnum())
	assert.Equal(t, "DatasetRole", role.Enum.Name)

	require.Len(t, g.Enums, 1)
	e, ok := g.Enum("DatasetRole")
	require.True(t, ok)
	assert.Same(t, role.Enum, e)
	assert.Same(t, dataset, e.Owner)
	assert.Equal(t, "role", e.Field)

	_, ok = g.Type("Missing")
	assert.False(t, ok)
	_, ok = g.Enum("Missing")
	assert.False(t, ok)
	_, ok = project.Edge("missing")
	assert.False(t, ok)
}

func TestNewGraph_Cardinalities(t *testing.T) {
	const doc = `schema_version: "1.0"
model_name: Cards
entities:
  User:
    attributes: {}
    relationships:
      owner: {target: Task, cardinality: "%s"}
  Task:
    attributes: {}
`
	type side struct {
		name     string
		rel      Rel
		unique   bool
		optional bool
		fk       *ForeignKey
	}
	tests := []struct {
		card string
		user side
		task side
	}{
		{
			card: "1:N",
			user: side{name: "owner", rel: O2M},
			task: side{name: "ownerUser", rel: M2O, unique: true, fk: &ForeignKey{Name: "ownerUserId", References: IDField}},
		},
		{
			card: "0:N",
			user: side{name: "owner", rel: O2M},
			task: side{name: "ownerUser", rel: M2O, unique: true, optional: true, fk: &ForeignKey{Name: "ownerUserId", Optional: true, References: IDField}},
		},
		{
			card: "0:1",
			user: side{name: "owner", rel: M2O, unique: true, optional: true, fk: &ForeignKey{Name: "ownerId", Optional: true, References: IDField}},
			task: side{name: "ownerUsers", rel: O2M},
		},
		{
			card: "1:1",
			user: side{name: "owner", rel: O2O, unique: true, fk: &ForeignKey{Name: "ownerId", Unique: true, References: IDField}},
			task: side{name: "ownerUser", rel: O2O, unique: true, optional: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			g := graph(t, fmt.Sprintf(doc, tt.card))
			user, _ := g.Type("User")
			task, _ := g.Type("Task")
			require.Len(t, user.Edges, 1)
			require.Len(t, task.Edges, 1)
			for typ, want := range map[*Type]side{user: tt.user, task: tt.task} {
				e := typ.Edges[0]
				assert.Equal(t, want.name, e.Name)
				assert.Equal(t, want.rel, e.Rel, e.Name)
				assert.Equal(t, want.unique, e.Unique, e.Name)
				assert.Equal(t, want.optional, e.Optional, e.Name)
				assert.Equal(t, want.fk, e.FK, e.Name)
				assert.Equal(t, "Owner", e.Relation)
				assert.Equal(t, tt.card, e.Cardinality)
				assert.Equal(t, "owner", e.Relationship)
			}
			assert.Same(t, task.Edges[0], user.Edges[0].Ref)
			assert.Same(t, user.Edges[0], task.Edges[0].Ref)
			assert.False(t, user.Edges[0].Inverse)
			assert.True(t, task.Edges[0].Inverse)
		})
	}

	t.Run("N:M", func(t *testing.T) {
		g := graph(t, fmt.Sprintf(doc, "N:M"))
		assert.Equal(t, []string{"User", "Task", "UserOwner"}, nodeNames(g))
		user, _ := g.Type("User")
		task, _ := g.Type("Task")
		join, ok := g.Type("UserOwner")
		require.True(t, ok)
		assert.True(t, join.Join)
		assert.Same(t, user.Edges[0], join.JoinOf)
		assert.Equal(t, [][]string{{"sourceId", "targetId"}}, join.Uniques)

		assert.Equal(t, []string{"owner"}, edgeNames(user))
		assert.Equal(t, []string{"ownerUsers"}, edgeNames(task))
		assert.Equal(t, []string{"source", "target"}, edgeNames(join))
		assert.Same(t, join, user.Edges[0].Type)
		assert.Same(t, join, task.Edges[0].Type)
		assert.Equal(t, "Owner", join.Edges[0].Relation)
		assert.Equal(t, "OwnerInverse", join.Edges[1].Relation)
		assert.Equal(t, "OwnerInverse", task.Edges[0].Relation)
		for _, e := range join.Edges {
			assert.Equal(t, M2O, e.Rel)
			assert.False(t, e.FK.Optional)
		}
		assert.Equal(t, []*ForeignKey{
			{Name: "sourceId", References: IDField},
			{Name: "targetId", References: IDField},
		}, join.ForeignKeys())
	})
}

func TestNewGraph_EdgeOrder(t *testing.T) {
	g := graph(t, `schema_version: "1.0"
model_name: Order
entities:
  Employee:
    attributes: {}
    relationships:
      manager: {target: Employee, cardinality: "0:1"}
      reports: {target: Team, cardinality: "1:N"}
  Team:
    attributes: {}
    relationships:
      lead: {target: Employee, cardinality: "1:1"}
      members: {target: Employee, cardinality: "N:M"}
`)
	employee, _ := g.Type("Employee")
	team, _ := g.Type("Team")
	join, _ := g.Type("TeamMembers")
	assert.Equal(t, []string{"manager", "managerEmployees", "reports", "leadTeam", "membersTeams"}, edgeNames(employee))
	assert.Equal(t, []string{"reportsEmployee", "lead", "members"}, edgeNames(team))
	assert.Equal(t, []string{"source", "target"}, edgeNames(join))

	manager, _ := employee.Edge("manager")
	back, _ := employee.Edge("managerEmployees")
	assert.Same(t, back, manager.Ref)
	assert.Same(t, employee, manager.Type)
	assert.Same(t, employee, back.Type)
}

func TestNewGraph_InverseNaming(t *testing.T) {
	const doc = `schema_version: "1.0"
model_name: Inflect
entities:
  Category:
    attributes: {}
    relationships:
      parent: {target: Item, cardinality: "0:1"}
  Item:
    attributes: {}
`
	item, _ := graph(t, doc).Type("Item")
	assert.Equal(t, []string{"parentCategorys"}, edgeNames(item))
	item, _ = graph(t, doc, WithInverseNaming(InverseInflect)).Type("Item")
	assert.Equal(t, []string{"parentCategories"}, edgeNames(item))
}

func TestNewGraph_Enums(t *testing.T) {
	g := graph(t, `schema_version: "1.0"
model_name: Enums
entities:
  Task:
    attributes:
      status: {type: Enum, options: [in progress, done, "完了", a-b, a.b]}
      kind: {type: Enum}
      phase: {type: Enum, options: []}
`)
	task, _ := g.Type("Task")
	require.Len(t, g.Enums, 1)
	e := g.Enums[0]
	assert.Equal(t, "TaskStatus", e.Name)
	assert.Equal(t, []*EnumValue{
		{Name: "in_progress", Value: "in progress"},
		{Name: "done", Value: "done"},
		{Name: "Option_3", Value: "完了"},
		{Name: "a_b", Value: "a-b"},
		{Name: "a_b_5", Value: "a.b"},
	}, e.Values)
	assert.False(t, e.Values[1].Mapped())
	assert.True(t, e.Values[0].Mapped())
	assert.Equal(t, []*Enum{e}, task.Enums())

	for _, name := range []string{"kind", "phase"} {
		f, ok := task.Field(name)
		require.True(t, ok)
		assert.False(t, f.IsEnum(), name)
		assert.Equal(t, "String", f.Type.String(), name)
	}
}

func TestNewGraph_ReservedWords(t *testing.T) {
	g := graph(t, `schema_version: "1.0"
model_name: Reserved
entities:
  model:
    attributes:
      enum: {type: String}
      id: {type: Integer}
      type: {type: Enum, options: [a]}
    relationships:
      items: {target: model, cardinality: "0:N"}
`)
	m, ok := g.Type("model")
	require.True(t, ok)
	assert.Equal(t, "Model_", m.Ident)
	assert.Equal(t, "Model", m.TypeName())
	for name, ident := range map[string]string{"enum": "enum_", "id": "id_", "type": "type_"} {
		f, ok := m.Field(ident)
		require.True(t, ok, ident)
		assert.Equal(t, name, f.Name)
	}
	assert.Equal(t, []string{"items", "itemsModel_"}, edgeNames(m))
	require.Len(t, g.Enums, 1)
	assert.Equal(t, "ModelType", g.Enums[0].Name)
}

func TestNewGraph_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		is   func(error) bool
		msg  string
	}{
		{
			name: "no entities",
			doc:  "schema_version: \"1.0\"\nmodel_name: Empty\nentities: {}\n",
			is:   lmgen.IsStructural,
			msg:  "model has no entities",
		},
		{
			name: "dangling target",
			doc: `entities:
  User:
    attributes: {}
    relationships:
      tasks: {target: Task, cardinality: "1:N"}
`,
			is:  lmgen.IsReferential,
			msg: "Task",
		},
		{
			name: "multiple primary keys",
			doc: `entities:
  User:
    attributes:
      a: {type: String, primary_key: true}
      b: {type: String, primary_key: true}
`,
			is:  lmgen.IsStructural,
			msg: "more than one primary key",
		},
		{
			name: "unknown type",
			doc: `entities:
  User:
    attributes:
      a: {type: Money}
`,
			is:  lmgen.IsStructural,
			msg: `unknown attribute type "Money"`,
		},
		{
			name: "unknown cardinality",
			doc: `entities:
  User:
    attributes: {}
    relationships:
      me: {target: User, cardinality: "2:N"}
`,
			is:  lmgen.IsStructural,
			msg: `unknown cardinality "2:N"`,
		},
		{
			name: "invalid entity identifier",
			doc: `entities:
  "タスク":
    attributes: {}
`,
			is:  lmgen.IsStructural,
			msg: "does not produce a valid identifier",
		},
		{
			name: "model collision",
			doc: `entities:
  user_name: {attributes: {}}
  UserName: {attributes: {}}
`,
			is:  lmgen.IsNamingCollision,
			msg: "UserName",
		},
		{
			name: "join collision",
			doc: `entities:
  User:
    attributes: {}
    relationships:
      teams: {target: Team, cardinality: "N:M"}
  Team: {attributes: {}}
  UserTeams: {attributes: {}}
`,
			is:  lmgen.IsNamingCollision,
			msg: "UserTeams",
		},
		{
			name: "enum collision",
			doc: `entities:
  Task:
    attributes:
      status: {type: Enum, options: [open]}
  TaskStatus: {attributes: {}}
`,
			is:  lmgen.IsNamingCollision,
			msg: "TaskStatus",
		},
		{
			name: "flattened collision",
			doc: `entities:
  User:
    attributes: {}
    relationships:
      tasks:
        target: Task
        cardinality: "1:N"
        attributes:
          title: {type: String}
  Task:
    attributes:
      title: {type: String}
`,
			is:  lmgen.IsNamingCollision,
			msg: "title",
		},
		{
			name: "edge and attribute collision",
			doc: `entities:
  User:
    attributes:
      owner: {type: String}
    relationships:
      owner: {target: User, cardinality: "0:1"}
`,
			is:  lmgen.IsNamingCollision,
			msg: "owner",
		},
		{
			name: "foreign key collision",
			doc: `entities:
  User:
    attributes:
      ownerId: {type: String}
    relationships:
      owner: {target: User, cardinality: "0:1"}
`,
			is:  lmgen.IsNamingCollision,
			msg: "ownerId",
		},
		{
			name: "enum value collision",
			doc: `entities:
  Task:
    attributes:
      status: {type: Enum, options: [a_b_3, a b, a-b]}
`,
			is:  lmgen.IsNamingCollision,
			msg: "a_b_3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(MustNewConfig(), parse(t, tt.doc))
			require.Error(t, err)
			assert.True(t, tt.is(err), "unexpected error kind: %v", err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	t.Run("registry collision", func(t *testing.T) {
		m := parse(t, "entities:\n  UserDefinedRelationship: {attributes: {}}\n")
		_, err := NewGraph(MustNewConfig(), m)
		require.NoError(t, err)
		_, err = NewGraph(MustNewConfig(WithFeatures(FeatureRelationshipRegistry)), m)
		require.Error(t, err)
		assert.True(t, lmgen.IsNamingCollision(err))
	})

	t.Run("all problems are reported", func(t *testing.T) {
		_, err := NewGraph(nil, parse(t, `entities:
  User:
    attributes:
      a: {type: Money}
    relationships:
      tasks: {target: Task, cardinality: "1:N"}
      notes: {target: Note, cardinality: "1:N"}
`))
		require.Error(t, err)
		var agg *lmgen.AggregateError
		require.True(t, errors.As(err, &agg))
		assert.Len(t, agg.Unwrap(), 3)
		assert.True(t, lmgen.IsReferential(err))
		assert.True(t, lmgen.IsStructural(err))
	})

	assert.Panics(t, func() { MustNewGraph(nil, nil) })
}

func TestNewGraph_Idempotent(t *testing.T) {
	m := parse(t, projects)
	before := m.Clone()
	a, err := NewGraph(nil, m)
	require.NoError(t, err)
	b, err := NewGraph(nil, m)
	require.NoError(t, err)
	assert.Equal(t, before, m, "source model is not mutated")
	assert.Equal(t, nodeNames(a), nodeNames(b))
	for i := range a.Nodes {
		assert.Len(t, b.Nodes[i].Fields, len(a.Nodes[i].Fields), a.Nodes[i].Name)
		assert.Equal(t, edgeNames(a.Nodes[i]), edgeNames(b.Nodes[i]))
	}
	dataset, _ := m.Entity("Dataset")
	assert.False(t, dataset.Attributes.Has("role"), "flattened attributes stay in the graph")
}
