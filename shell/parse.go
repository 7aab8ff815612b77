package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dargueta/blockfs"
)

// Command is one parsed command line.
type Command struct {
	Name string
	Args []string
}

// InvalidCommandError is returned for lines that can't be executed at all:
// unknown commands, wrong argument counts, and malformed numbers.
type InvalidCommandError struct {
	Detail string
}

func (e InvalidCommandError) Error() string {
	return "Invalid command line: " + e.Detail
}

func (e InvalidCommandError) Unwrap() error {
	return blockfs.ErrInvalidArgument
}

// arity gives the number of arguments each command takes. help takes an
// optional one, which is handled separately.
var arity = map[string]int{
	"ls":     0,
	"home":   0,
	"pwd":    0,
	"df":     0,
	"tree":   0,
	"quit":   0,
	"help":   0,
	"mkdir":  1,
	"cd":     1,
	"rmdir":  1,
	"create": 1,
	"cat":    1,
	"rm":     1,
	"stat":   1,
	"wc":     1,
	"find":   1,
	"append": 2,
	"tail":   2,
	"head":   2,
	"cp":     2,
	"mv":     2,
}

const whitespace = " \t\n\v\f\r"

// nextToken splits the first whitespace-delimited token off `line`. `rest`
// begins with the whitespace that ended the token.
func nextToken(line string) (token, rest string) {
	line = strings.TrimLeft(line, whitespace)
	end := strings.IndexAny(line, whitespace)
	if end < 0 {
		return line, ""
	}
	return line[:end], line[end:]
}

// appendData extracts the data argument of append: everything after the file
// name with leading blanks removed and one pair of enclosing double quotes
// stripped. It returns false if there's nothing there.
func appendData(rest string) (string, bool) {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return "", false
	}
	if len(rest) >= 2 && rest[0] == '"' && rest[len(rest)-1] == '"' {
		return rest[1 : len(rest)-1], true
	}
	return rest, true
}

// ParseCommand splits a command line into a command and its arguments and
// checks the argument count. A blank line gives a nil command and no error.
func ParseCommand(line string) (*Command, error) {
	name, rest := nextToken(line)
	if name == "" {
		return nil, nil
	}

	expected, known := arity[name]
	if !known {
		return nil, InvalidCommandError{Detail: name + " is not a command"}
	}

	command := &Command{Name: name}
	if name == "append" {
		var fileName string
		fileName, rest = nextToken(rest)
		if fileName != "" {
			command.Args = append(command.Args, fileName)
			if data, ok := appendData(rest); ok {
				command.Args = append(command.Args, data)
			}
		}
	} else {
		command.Args = strings.Fields(rest)
	}

	count := len(command.Args)
	if count != expected && !(name == "help" && count == 1) {
		return nil, InvalidCommandError{
			Detail: name + " has improper number of arguments",
		}
	}
	return command, nil
}

// parseByteCount parses the byte count argument of head and tail. Decimal,
// hexadecimal (0x), and octal (0) forms are accepted.
func parseByteCount(text string) (uint32, error) {
	n, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, InvalidCommandError{
			Detail: fmt.Sprintf("%s is not a valid number of bytes", text),
		}
	}
	return uint32(n), nil
}
