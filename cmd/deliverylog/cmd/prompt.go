package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// interactive reports whether stdin is a terminal; prompts are only shown
// to a human, never to a pipe.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func promptLine(label string) string {
	fmt.Printf("%s: ", label)
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// promptLineDefault asks for a value, keeping def when the user just
// presses Enter.
func promptLineDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	if v := promptLine(label); v != "" {
		return v
	}
	return def
}

func confirm(question string) bool {
	answer := promptLine(question + " [y/N]")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
