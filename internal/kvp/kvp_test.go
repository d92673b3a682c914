package kvp

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	values, err := ParseLines([]string{
		`xyz = {"one", "two", "three"}`,
		`a = 1`,
		`c = {1,2,3}`,
		`b = "2"`,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "xyz"}, values.Keys())

	a, err := values.Int("a")
	require.NoError(t, err)
	assert.Equal(t, 1, a)

	b, ok := values.Text("b")
	require.True(t, ok)
	assert.Equal(t, "2", b)

	assert.Equal(t, "(1, 2, 3)", values["c"].String())
	assert.Equal(t, "(one, two, three)", values["xyz"].String())

	items, ok := values.List("c")
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.True(t, items[0].IsNumber)
	assert.Equal(t, 3, items[2].Number)
}

func TestParseLinesSyntaxError(t *testing.T) {
	_, err := ParseLines([]string{"a = 1", "this is garbage input"})
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 2, syntaxErr.Line)
	assert.True(t, strings.HasPrefix(err.Error(), "session file line 2:"))

	_, err = ParseLines([]string{" = value"})
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 1, syntaxErr.Line)
}

func TestParseValueTrimming(t *testing.T) {
	values, err := ParseLines([]string{
		`spaced =    "  six seven  "  `,
		`command = ssh -o Compression=yes host`,
		`empty =`,
		`list = {"this","  is a list  "," of stuff"}`,
		`words = {this,  is a list  , of stuff}`,
	})
	require.NoError(t, err)

	// quotes and surrounding blanks are trimmed together
	spaced, _ := values.Text("spaced")
	assert.Equal(t, "six seven", spaced)

	command, _ := values.Text("command")
	assert.Equal(t, "ssh -o Compression=yes host", command)

	empty, ok := values.Text("empty")
	assert.True(t, ok)
	assert.Equal(t, "", empty)

	list, _ := values.List("list")
	assert.Equal(t, "this", list[0].Text)
	assert.Equal(t, "  is a list  ", list[1].Text)
	assert.Equal(t, " of stuff", list[2].Text)

	words, _ := values.List("words")
	assert.Equal(t, []string{"this", "is a list", "of stuff"}, []string{words[0].Text, words[1].Text, words[2].Text})
}

func TestParseLineEndingsAndBlankLines(t *testing.T) {
	values, err := Parse(strings.NewReader("a = 1\r\n\r\nb = 2\rc = 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values.Keys())
}

func TestParseDeclaredEncoding(t *testing.T) {
	data := []byte("encoding = ISO-8859-1\nname = caf\xe9\n")
	values, err := ParseBytes(data)
	require.NoError(t, err)

	name, _ := values.Text("name")
	assert.Equal(t, "café", name)

	_, err = ParseBytes([]byte("encoding = no-such-charset\n"))
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.session")
	require.NoError(t, os.WriteFile(path, []byte("command = /bin/sh -l\nname = \"shell\"\n"), 0644))

	values, err := ParseFile(path)
	require.NoError(t, err)
	command, ok := values.Text("command")
	require.True(t, ok)
	assert.Equal(t, "/bin/sh -l", command)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.session"))
	assert.Error(t, err)
}

func TestValuesJSON(t *testing.T) {
	values, err := ParseLines([]string{"c = {1, two}", "name = x"})
	require.NoError(t, err)

	out, err := json.Marshal(values)
	require.NoError(t, err)
	assert.JSONEq(t, `{"c":[1,"two"],"name":"x"}`, string(out))
}

func TestAccessorsRejectWrongShape(t *testing.T) {
	values, err := ParseLines([]string{"c = {1}", "n = abc"})
	require.NoError(t, err)

	_, ok := values.Text("c")
	assert.False(t, ok)
	_, ok = values.List("n")
	assert.False(t, ok)
	_, err = values.Int("n")
	assert.Error(t, err)
	_, err = values.Int("missing")
	assert.Error(t, err)
}
