package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_name", "UserName"},
		{"created-by", "CreatedBy"},
		{"iPhone", "IPhone"},
		{"already", "Already"},
		{"a", "A"},
		{"foo bar.baz", "FooBarBaz"},
		{"v2_item", "V2Item"},
		{"2fa", "2fa"},
		{"__x__", "X"},
		{"HTTPServer", "HTTPServer"},
		{"タスク", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_name", "userName"},
		{"User", "user"},
		{"created_tasks", "createdTasks"},
		{"managed by", "managedBy"},
		{"HTTPServer", "hTTPServer"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Camel(tt.input))
		})
	}
}

func TestSafeNames(t *testing.T) {
	assert.Equal(t, "enum_", SafeCamel("enum"))
	assert.Equal(t, "Model_", SafePascal("model"))
	assert.Equal(t, "Model_", SafePascal("Model"))
	assert.Equal(t, "string_", SafeCamel("String"))
	assert.Equal(t, "type_", SafeCamel("Type"))
	assert.Equal(t, "Datetime_", SafePascal("datetime"))
	assert.Equal(t, "User", SafePascal("user"))
	assert.Equal(t, "createdTasks", SafeCamel("created_tasks"))

	t.Run("Idempotent", func(t *testing.T) {
		for _, s := range []string{"UserName", "Task", "Model_", "V2Item"} {
			assert.Equal(t, SafePascal(s), SafePascal(SafePascal(s)), s)
		}
		for _, s := range []string{"userName", "enum_", "id"} {
			assert.Equal(t, SafeCamel(s), SafeCamel(SafeCamel(s)), s)
		}
		assert.Equal(t, "UserName", SafePascal("UserName"))
		assert.Equal(t, "userName", SafeCamel("userName"))
	})
}

func TestIsReserved(t *testing.T) {
	for _, s := range []string{"model", "Model", "MODEL", "DateTime", "await", "Json"} {
		assert.True(t, IsReserved(s), s)
	}
	for _, s := range []string{"models", "user", "Model_", ""} {
		assert.False(t, IsReserved(s), s)
	}
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("A1_"))
	assert.True(t, ValidIdentifier("in_progress"))
	assert.False(t, ValidIdentifier("_a"))
	assert.False(t, ValidIdentifier("1a"))
	assert.False(t, ValidIdentifier("a-b"))
	assert.False(t, ValidIdentifier(""))
}

func TestEnumValueName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"in progress", "in_progress"},
		{"a.b-c", "a_b_c"},
		{"東京・大阪", ""},
		{"営業　部", ""},
		{"  leading", "leading"},
		{"100%", "100"},
		{"a__b", "a_b"},
		{"café au lait", "caf_au_lait"},
		{"Public", "Public"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnumValueName(tt.input))
		})
	}
}
