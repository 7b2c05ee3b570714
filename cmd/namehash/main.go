// Command namehash prints EIP-137 namehashes, one "<domain>: 0x<hex>" line per
// domain. udscan invokes it as `namehash domain <name>`.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"udscan/internal/namehash"
)

const usage = `Usage:
  namehash domain <domain>              Get the namehash of a single domain
  namehash file <input> [-o <output>]   Get the namehashes of many domains at once
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "domain":
		if len(args) != 2 {
			fmt.Fprint(stderr, usage)
			return 2
		}
		fmt.Fprintln(stdout, namehash.FormatLine(args[1]))
		return 0
	case "file":
		return runFile(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}
}

func runFile(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("file", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "File to save hashes to, stdout if not given")
	fs.StringVar(output, "output", "", "File to save hashes to, stdout if not given")

	// Accept the output flag on either side of the input path.
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	input := fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err := hashFile(input, *output, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func hashFile(input, output string, stdout, stderr io.Writer) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	var buf strings.Builder
	w := stdout
	if output != "" {
		w = &buf
	}

	r := bufio.NewReader(f)
	for {
		line, readErr := r.ReadString('\n')
		if line != "" {
			hashLine(w, stderr, line)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", readErr)
			break
		}
	}

	if output == "" {
		return nil
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(output, []byte(buf.String()), 0o644)
}

// hashLine hashes one input line without its terminator. Lines that are not
// valid UTF-8 are reported and skipped.
func hashLine(w, stderr io.Writer, line string) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		fmt.Fprintln(stderr, "Error: stream did not contain valid UTF-8")
		return
	}
	fmt.Fprintln(w, namehash.FormatLine(line))
}
