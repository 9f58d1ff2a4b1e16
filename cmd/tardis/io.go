package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"tardis-go/internal/tardis"
)

var errRestoreCancelled = errors.New("restore cancelled")

// stdinIsTerminal reports whether the user can answer prompts.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// restoreHook announces every restore on out. With confirm set it asks
// before each file: yes, no (skip), all (stop asking) or quit.
func restoreHook(out io.Writer, in io.Reader, confirm bool) tardis.RestoreHook {
	reader := bufio.NewReader(in)
	return func(a *tardis.RestoreAction) (bool, error) {
		fmt.Fprintf(out, "Restoring %s using %s from %s\n",
			a.RelativePath, a.Source.Path, a.Source.Timestamp.UTC().Format(tardis.TimestampFormat))
		if !confirm {
			return true, nil
		}

		for {
			fmt.Fprint(out, "Restore? [y]es / [n]o / [a]ll / [q]uit: ")
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				fmt.Fprintln(out)
				return false, errRestoreCancelled
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			case "n", "no":
				return false, nil
			case "a", "all":
				confirm = false
				return true, nil
			case "q", "quit":
				return false, errRestoreCancelled
			}
		}
	}
}
