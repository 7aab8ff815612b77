package shell_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dargueta/blockfs/shell"
	blockfstest "github.com/dargueta/blockfs/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShell(t *testing.T) (*shell.Shell, *bytes.Buffer, *bytes.Buffer) {
	_, session := blockfstest.NewFileSystem(t)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return shell.New(session, out, errOut), out, errOut
}

// runLines executes each line and returns what was printed to stdout.
func runLines(t *testing.T, sh *shell.Shell, out *bytes.Buffer, lines ...string) string {
	out.Reset()
	for _, line := range lines {
		assert.False(t, sh.Execute(line), "%q unexpectedly quit", line)
	}
	return out.String()
}

func TestShell__Script(t *testing.T) {
	sh, out, errOut := newShell(t)
	script := strings.Join(
		[]string{
			"mkdir d",
			"cd d",
			"pwd",
			"create f",
			`append f "ab cd"`,
			"ls",
			"quit",
			"pwd",
		},
		"\n",
	)

	require.NoError(t, sh.RunScript(strings.NewReader(script)))
	assert.Equal(
		t,
		"FS> mkdir d\nFS> cd d\nFS> pwd\n/d\nFS> create f\nFS> append f \"ab cd\"\n"+
			"FS> ls\nf\nFS> quit\n",
		out.String(),
	)
	assert.Empty(t, errOut.String())
}

// A final line without a newline is still executed.
func TestShell__Script__NoTrailingNewline(t *testing.T) {
	sh, out, _ := newShell(t)
	require.NoError(t, sh.RunScript(strings.NewReader("pwd\r\nls")))
	assert.Equal(t, "FS> pwd\n/\nFS> ls\n", out.String())
}

func TestShell__Interactive(t *testing.T) {
	sh, out, _ := newShell(t)
	require.NoError(t, sh.Run(strings.NewReader("mkdir x\nls\nquit\nls\n")))
	assert.Equal(t, "FS> FS> x/\nFS> ", out.String())
}

func TestShell__Interactive__EOF(t *testing.T) {
	sh, out, _ := newShell(t)
	require.NoError(t, sh.Run(strings.NewReader("pwd\n")))
	assert.Equal(t, "FS> /\nFS> \n", out.String())
}

func TestShell__Errors(t *testing.T) {
	sh, out, errOut := newShell(t)

	output := runLines(t, sh, out,
		"cd nowhere",
		"mkdir averylongname",
		"create f",
		"create f",
		"cd f",
		"rmdir f",
	)
	assert.Equal(
		t,
		"File does not exist\nFile name is too long\nFile exists\n"+
			"File is not a directory\nFile is not a directory\n",
		output,
	)

	runLines(t, sh, out, "bogus", "ls x", "head f many")
	assert.Equal(
		t,
		"Invalid command line: bogus is not a command\n"+
			"Invalid command line: ls has improper number of arguments\n"+
			"Invalid command line: many is not a valid number of bytes\n",
		errOut.String(),
	)
	assert.Empty(t, out.String())
}

func TestShell__FileOutput(t *testing.T) {
	sh, out, _ := newShell(t)
	runLines(t, sh, out, "create f", "append f ab cd", `append f "\nef"`)

	assert.Equal(t, "ab cd\\nef\n", runLines(t, sh, out, "cat f"))
	assert.Equal(t, "ab\n", runLines(t, sh, out, "head f 2"))
	assert.Equal(t, "", runLines(t, sh, out, "head f 0"))
	assert.Equal(t, "ef\n", runLines(t, sh, out, "tail f 2"))
	assert.Equal(t, "\n", runLines(t, sh, out, "tail f 0"))
	assert.Equal(t, "0 2 9 f\n", runLines(t, sh, out, "wc f"), "the backslash is literal")

	runLines(t, sh, out, "create empty")
	assert.Equal(t, "\n", runLines(t, sh, out, "cat empty"))
	assert.Equal(t, "", runLines(t, sh, out, "head empty 5"))
	assert.Equal(t, "", runLines(t, sh, out, "tail empty 5"))
	assert.Equal(t, "0 0 0 empty\n", runLines(t, sh, out, "wc empty"))
}

// Appends are concatenated with nothing in between.
func TestShell__WordCount__Concatenated(t *testing.T) {
	sh, out, _ := newShell(t)
	runLines(t, sh, out, "create f", "append f one two", "append f  three")
	assert.Equal(t, "0 2 12 f\n", runLines(t, sh, out, "wc f"))
}

func TestShell__Stat(t *testing.T) {
	sh, out, _ := newShell(t)
	runLines(t, sh, out, "mkdir d", "create f", "append f hello")

	assert.Equal(
		t, "Directory name: d/\nDirectory block: 2\n", runLines(t, sh, out, "stat d"))
	assert.Equal(
		t,
		"Inode block: 3\nBytes in file: 5\nNumber of blocks: 1\nFirst block: 4\n",
		runLines(t, sh, out, "stat f"),
	)
}

func TestShell__DiskUsage(t *testing.T) {
	sh, out, _ := newShell(t)
	assert.Equal(
		t,
		"Filesystem     Total    Used    Free   Use%\n"+
			"/dev/disk      1024     2     1022    0%\n",
		runLines(t, sh, out, "df"),
	)
}

func TestShell__TreeFind(t *testing.T) {
	sh, out, _ := newShell(t)
	runLines(t, sh, out, "mkdir a", "create f", "cd a", "create f", "home")

	assert.Equal(
		t, "/\n├── a/\n│   └── f\n└── f\n", runLines(t, sh, out, "tree"))
	assert.Equal(t, "/a/f\n/f\n", runLines(t, sh, out, "find f"))
	assert.Equal(t, "", runLines(t, sh, out, "find g"))
}

func TestShell__CopyMove(t *testing.T) {
	sh, out, _ := newShell(t)
	runLines(t, sh, out, "create a", "append a data", "cp a b", "mv a c")

	assert.Equal(t, "c\nb\n", runLines(t, sh, out, "ls"))
	assert.Equal(t, "data\n", runLines(t, sh, out, "cat b"))
	assert.Equal(t, "File exists\n", runLines(t, sh, out, "cp b c"))
	assert.Equal(t, "File does not exist\n", runLines(t, sh, out, "mv a z"))
}

func TestShell__Help(t *testing.T) {
	sh, out, _ := newShell(t)

	general := runLines(t, sh, out, "help")
	assert.True(t, strings.HasPrefix(general, "Available commands:\n"))
	assert.Contains(t, general, "  quit            - Exit the shell\n")

	assert.Equal(
		t,
		"rmdir <dir> - Remove empty directory\n"+
			"  Removes the specified directory. The directory must be empty.\n",
		runLines(t, sh, out, "help rmdir"),
	)
	assert.Equal(
		t,
		"Unknown command: nope\nType 'help' for a list of available commands.\n",
		runLines(t, sh, out, "help nope"),
	)
}
