package golang_test

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lmgen/compiler/gen"
	"github.com/syssam/lmgen/compiler/gen/golang"
	"github.com/syssam/lmgen/compiler/load"
)

const tracker = `
model_name: Tracker
entities:
  User:
    description: A person
    attributes:
      email: {type: String, required: true, description: Login address}
      age: {type: Integer}
      born: {type: Date}
      id: {type: Float}
    relationships:
      tasks: {target: Task, cardinality: "1:N"}
      teams: {target: Team, cardinality: "N:M"}
  Task:
    attributes:
      status: {type: Enum, required: true, options: [open, in progress]}
      done: {type: Boolean, required: true}
  Team:
    attributes: {}
`

func render(t *testing.T, doc string, opts ...gen.Option) string {
	t.Helper()
	m, err := load.Parse([]byte(doc))
	require.NoError(t, err)
	g, err := gen.NewGraph(gen.MustNewConfig(opts...), m)
	require.NoError(t, err)
	data, err := golang.New().Generate(g)
	require.NoError(t, err)
	_, err = parser.ParseFile(token.NewFileSet(), "models.go", data, parser.ParseComments)
	require.NoError(t, err, string(data))
	return normalize(string(data))
}

// normalize collapses the gofmt alignment of every line.
func normalize(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func TestGenerate(t *testing.T) {
	out := render(t, tracker)
	for _, want := range []string{
		"// Code generated by lmgen. DO NOT EDIT.",
		"// Package models holds the models of Tracker.\npackage models",
		`import "time"`,
		"type TaskStatus string",
		`TaskStatusOpen TaskStatus = "open"`,
		`TaskStatusInProgress TaskStatus = "in progress"`,
		"func (e TaskStatus) IsValid() bool {",
		"case TaskStatusOpen, TaskStatusInProgress:",
		"// User is the model entity for the User schema.\ntype User struct {",
		"ID string `json:\"id\"`",
		"CreatedAt time.Time `json:\"createdAt\"`",
		"DeletedAt *time.Time `json:\"deletedAt,omitempty\"`",
		"Email string `json:\"email\"`",
		"Age *int64 `json:\"age,omitempty\"`",
		"Born *time.Time `json:\"born,omitempty\"`",
		"ID_ *float64 `json:\"id_,omitempty\"`",
		"Tasks []*Task `json:\"tasks,omitempty\"`",
		"Teams []*UserTeams `json:\"teams,omitempty\"`",
		"Status TaskStatus `json:\"status\"`",
		"Done bool `json:\"done\"`",
		"TasksUserID string `json:\"tasksUserId\"`",
		"TasksUser *User `json:\"tasksUser,omitempty\"`",
		"// UserTeams is the join entity of the teams relationship of User.",
		"SourceID string `json:\"sourceId\"`",
		"Target *Team `json:\"target,omitempty\"`",
		"TeamsUsers []*UserTeams `json:\"teamsUsers,omitempty\"`",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "A person")
	assert.NotContains(t, out, "Login address")
}

func TestGenerate_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []gen.Option
		want []string
	}{
		{
			name: "Package",
			opts: []gen.Option{gen.WithPackage("tracker")},
			want: []string{"package tracker"},
		},
		{
			name: "Header",
			opts: []gen.Option{gen.WithHeader("Copyright Tracker authors.")},
			want: []string{"// Code generated by lmgen. DO NOT EDIT.\n// Copyright Tracker authors."},
		},
		{
			name: "DocComments",
			opts: []gen.Option{gen.WithFeatures(gen.FeatureDocComments)},
			want: []string{
				"// User is the model entity for the User schema.\n// A person\ntype User struct {",
				"// Login address\nEmail string",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tracker, tt.opts...)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestGenerate_ReservedNames(t *testing.T) {
	out := render(t, `
entities:
  Model:
    attributes:
      type: {type: Enum, options: [a b, A-B]}
`)
	assert.Contains(t, out, "type Model struct {")
	assert.Contains(t, out, "type ModelType string")
	assert.Contains(t, out, "Type *ModelType `json:\"type_,omitempty\"`")
	assert.Contains(t, out, `ModelTypeAB ModelType = "a b"`)
	assert.Contains(t, out, `ModelType_A_B ModelType = "A-B"`)
}

func TestDialect(t *testing.T) {
	d := golang.New()
	assert.Equal(t, "go", d.Name())
	assert.Equal(t, "_models.go", d.Ext())
	var _ gen.Dialect = d
}
