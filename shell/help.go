package shell

// generalHelp is printed by `help` with no argument.
var generalHelp = []string{
	"Available commands:",
	"  mkdir <dir>     - Create directory",
	"  cd <dir>        - Change to directory",
	"  home            - Change to root directory",
	"  rmdir <dir>     - Remove empty directory",
	"  ls              - List directory contents",
	"  create <file>   - Create empty file",
	"  append <file> <data> - Append data to file",
	"  cat <file>      - Display file contents",
	"  tail <file> <n> - Display last N bytes of file",
	"  rm <file>       - Delete file",
	"  stat <name>     - Display file/directory statistics",
	"  pwd             - Print working directory",
	"  df              - Display disk usage",
	"  head <file> <n> - Display first N bytes of file",
	"  wc <file>       - Display word count (lines, words, bytes)",
	"  cp <src> <dest> - Copy file",
	"  mv <src> <dest> - Move/rename file",
	"  find <name>     - Find files/directories by name",
	"  tree            - Display directory tree",
	"  help [command]  - Show help (general or for specific command)",
	"  quit            - Exit the shell",
}

var commandHelp = map[string][]string{
	"mkdir": {
		"mkdir <dir> - Create a new directory",
		"  Creates a new directory with the specified name in the current directory.",
	},
	"cd": {
		"cd <dir> - Change to directory",
		"  Changes the current working directory to the specified directory.",
	},
	"home": {
		"home - Change to root directory",
		"  Changes the current working directory to the root directory (/).",
	},
	"rmdir": {
		"rmdir <dir> - Remove empty directory",
		"  Removes the specified directory. The directory must be empty.",
	},
	"ls": {
		"ls - List directory contents",
		"  Lists all files and directories in the current directory.",
		"  Directories are shown with a trailing '/' character.",
	},
	"create": {
		"create <file> - Create empty file",
		"  Creates a new empty file with the specified name.",
	},
	"append": {
		"append <file> <data> - Append data to file",
		"  Appends the specified data to the end of the file.",
		`  Use quotes around data containing spaces: append file "hello world"`,
	},
	"cat": {
		"cat <file> - Display file contents",
		"  Displays the entire contents of the specified file.",
	},
	"tail": {
		"tail <file> <n> - Display last N bytes of file",
		"  Displays the last N bytes of the specified file.",
	},
	"rm": {
		"rm <file> - Delete file",
		"  Permanently deletes the specified file.",
	},
	"stat": {
		"stat <name> - Display file/directory statistics",
		"  Shows detailed information about a file or directory.",
	},
	"pwd": {
		"pwd - Print working directory",
		"  Displays the current working directory path.",
	},
	"df": {
		"df - Display disk usage",
		"  Shows filesystem usage statistics including total, used, and free blocks.",
	},
	"head": {
		"head <file> <n> - Display first N bytes of file",
		"  Displays the first N bytes of the specified file.",
	},
	"wc": {
		"wc <file> - Display word count",
		"  Shows the number of lines, words, and bytes in the file.",
	},
	"cp": {
		"cp <src> <dest> - Copy file",
		"  Creates a copy of the source file with the destination name.",
	},
	"mv": {
		"mv <src> <dest> - Move/rename file",
		"  Renames the source file to the destination name.",
	},
	"find": {
		"find <name> - Find files/directories by name",
		"  Searches for files and directories with the specified name",
		"  starting from the current directory and all subdirectories.",
	},
	"tree": {
		"tree - Display directory tree",
		"  Shows the directory structure as a tree starting from current directory.",
	},
	"help": {
		"help [command] - Show help",
		"  Shows general help or detailed help for a specific command.",
	},
	"quit": {
		"quit - Exit the shell",
		"  Exits the file system shell.",
	},
}

// helpFor returns the help text for `command`, or a pointer to the general
// help if there's no such command.
func helpFor(command string) []string {
	if text, ok := commandHelp[command]; ok {
		return text
	}
	return []string{
		"Unknown command: " + command,
		"Type 'help' for a list of available commands.",
	}
}
