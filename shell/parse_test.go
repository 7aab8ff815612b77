package shell

import (
	"testing"

	"github.com/dargueta/blockfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand__Blank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t \t"} {
		command, err := ParseCommand(line)
		assert.NoError(t, err)
		assert.Nil(t, command)
	}
}

func TestParseCommand__Arity(t *testing.T) {
	valid := map[string]Command{
		"ls":             {Name: "ls"},
		"  pwd  ":        {Name: "pwd"},
		"help":           {Name: "help"},
		"help mkdir":     {Name: "help", Args: []string{"mkdir"}},
		"mkdir dir":      {Name: "mkdir", Args: []string{"dir"}},
		"cp  a\tb":       {Name: "cp", Args: []string{"a", "b"}},
		"head file 0x10": {Name: "head", Args: []string{"file", "0x10"}},
	}
	for line, expected := range valid {
		command, err := ParseCommand(line)
		require.NoErrorf(t, err, "%q should parse", line)
		assert.Equalf(t, expected.Name, command.Name, "name of %q", line)
		assert.Equalf(t, len(expected.Args), len(command.Args), "args of %q", line)
		for i := range expected.Args {
			assert.Equal(t, expected.Args[i], command.Args[i])
		}
	}

	invalid := []string{
		"ls extra",
		"help a b",
		"mkdir",
		"mkdir a b",
		"cp a",
		"cp a b c",
		"tail f",
		"append f",
		"append",
		"quit now",
	}
	for _, line := range invalid {
		_, err := ParseCommand(line)
		assert.ErrorIsf(t, err, blockfs.ErrInvalidArgument, "%q should fail", line)
		assert.Containsf(t, err.Error(), "has improper number of arguments", "%q", line)
	}
}

func TestParseCommand__UnknownCommand(t *testing.T) {
	_, err := ParseCommand("frobnicate x")
	assert.EqualError(t, err, "Invalid command line: frobnicate is not a command")
}

func TestParseCommand__AppendData(t *testing.T) {
	tests := map[string]string{
		`append f hello`:              "hello",
		`append f hello world`:        "hello world",
		`append f "hello world"`:      "hello world",
		"append f \t  \"quoted\"":     "quoted",
		`append f ""`:                 "",
		`append f "unbalanced`:        `"unbalanced`,
		`append f "`:                  `"`,
		`append f a "b" c`:            `a "b" c`,
		`append f "inner "quote" ok"`: `inner "quote" ok`,
	}

	for line, expected := range tests {
		command, err := ParseCommand(line)
		require.NoErrorf(t, err, "%q should parse", line)
		require.Len(t, command.Args, 2)
		assert.Equal(t, "f", command.Args[0])
		assert.Equalf(t, expected, command.Args[1], "data of %q", line)
	}
}

func TestParseByteCount(t *testing.T) {
	n, err := parseByteCount("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	n, err = parseByteCount("0x20")
	require.NoError(t, err)
	assert.EqualValues(t, 32, n)

	n, err = parseByteCount("010")
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	_, err = parseByteCount("lots")
	assert.EqualError(t, err, "Invalid command line: lots is not a valid number of bytes")

	_, err = parseByteCount("-1")
	assert.Error(t, err)
}
