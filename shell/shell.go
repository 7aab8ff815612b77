// Package shell is the command front end of the file system: it reads command
// lines, runs them against a [tinyfs.Session], and prints the results.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dargueta/blockfs/file_systems/tinyfs"
)

// Prompt is printed before each command line is read.
const Prompt = "FS> "

// Shell executes commands against one session. Command output and operation
// errors go to `out`; malformed command lines are reported on `errOut`.
type Shell struct {
	session *tinyfs.Session
	out     io.Writer
	errOut  io.Writer
}

func New(session *tinyfs.Session, out, errOut io.Writer) *Shell {
	return &Shell{
		session: session,
		out:     out,
		errOut:  errOut,
	}
}

// Run reads commands from `in` until `quit` or the end of the input, printing
// a prompt before each one.
func (sh *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, Prompt)
		if !scanner.Scan() {
			// Finish the prompt line so the caller's output starts cleanly.
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if sh.Execute(scanner.Text()) {
			return nil
		}
	}
}

// RunScript executes each line of `script` in turn, echoing it after the
// prompt so the output reads like a transcript. It stops early on `quit`.
func (sh *Shell) RunScript(script io.Reader) error {
	scanner := bufio.NewScanner(script)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		fmt.Fprintf(sh.out, "%s%s\n", Prompt, line)
		if sh.Execute(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. It returns true if the line was `quit`.
func (sh *Shell) Execute(line string) bool {
	command, err := ParseCommand(strings.TrimRight(line, "\r"))
	if err != nil {
		fmt.Fprintln(sh.errOut, err)
		return false
	}
	if command == nil {
		return false
	}
	if command.Name == "quit" {
		return true
	}

	err = sh.dispatch(command)
	if err != nil {
		if _, isParseError := err.(InvalidCommandError); isParseError {
			fmt.Fprintln(sh.errOut, err)
		} else {
			fmt.Fprintln(sh.out, err)
		}
	}
	return false
}

func (sh *Shell) println(text string) {
	fmt.Fprintln(sh.out, text)
}

func (sh *Shell) printLines(lines []string) {
	for _, line := range lines {
		sh.println(line)
	}
}

// printData writes file contents followed by a newline.
func (sh *Shell) printData(data []byte) {
	sh.out.Write(data)
	sh.println("")
}

func (sh *Shell) dispatch(command *Command) error {
	args := command.Args
	s := sh.session

	switch command.Name {
	case "mkdir":
		return s.Mkdir(args[0])
	case "cd":
		return s.Cd(args[0])
	case "home":
		s.Home()
	case "rmdir":
		return s.Rmdir(args[0])
	case "ls":
		listing, err := s.List()
		if err != nil {
			return err
		}
		for _, entry := range listing {
			sh.println(entry.String())
		}
	case "create":
		return s.Create(args[0])
	case "append":
		return s.Append(args[0], []byte(args[1]))
	case "cat":
		contents, err := s.Cat(args[0])
		if err != nil {
			return err
		}
		sh.printData(contents)
	case "head":
		n, err := parseByteCount(args[1])
		if err != nil {
			return err
		}
		excerpt, err := s.Head(args[0], n)
		if err != nil {
			return err
		}
		if len(excerpt.Data) > 0 {
			sh.printData(excerpt.Data)
		}
	case "tail":
		n, err := parseByteCount(args[1])
		if err != nil {
			return err
		}
		excerpt, err := s.Tail(args[0], n)
		if err != nil {
			return err
		}
		if excerpt.FileSize > 0 {
			sh.printData(excerpt.Data)
		}
	case "rm":
		return s.Remove(args[0])
	case "stat":
		return sh.stat(args[0])
	case "pwd":
		sh.println(s.Pwd())
	case "df":
		return sh.diskUsage()
	case "wc":
		count, err := s.WordCount(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%d %d %d %s\n", count.Lines, count.Words, count.Bytes, args[0])
	case "cp":
		return s.Copy(args[0], args[1])
	case "mv":
		return s.Move(args[0], args[1])
	case "find":
		matches, err := s.Find(args[0])
		if err != nil {
			return err
		}
		sh.printLines(matches)
	case "tree":
		lines, err := s.Tree()
		if err != nil {
			return err
		}
		sh.printLines(lines)
	case "help":
		if len(args) == 0 {
			sh.printLines(generalHelp)
		} else {
			sh.printLines(helpFor(args[0]))
		}
	default:
		return InvalidCommandError{Detail: command.Name + " is not a command"}
	}
	return nil
}

func (sh *Shell) stat(name string) error {
	stat, err := sh.session.Stat(name)
	if err != nil {
		return err
	}

	if stat.Kind == tinyfs.KindDirectory {
		fmt.Fprintf(sh.out, "Directory name: %s/\n", stat.Name)
		fmt.Fprintf(sh.out, "Directory block: %d\n", stat.Block)
		return nil
	}

	fmt.Fprintf(sh.out, "Inode block: %d\n", stat.Block)
	fmt.Fprintf(sh.out, "Bytes in file: %d\n", stat.Size)
	fmt.Fprintf(sh.out, "Number of blocks: %d\n", stat.BlockCount)
	fmt.Fprintf(sh.out, "First block: %d\n", stat.FirstBlock)
	return nil
}

func (sh *Shell) diskUsage() error {
	usage, err := sh.session.DiskUsage()
	if err != nil {
		return err
	}

	sh.println("Filesystem     Total    Used    Free   Use%")
	fmt.Fprintf(
		sh.out,
		"/dev/disk      %d     %d     %d    %d%%\n",
		usage.TotalBlocks,
		usage.UsedBlocks,
		usage.FreeBlocks,
		usage.UsedPercent,
	)
	return nil
}
