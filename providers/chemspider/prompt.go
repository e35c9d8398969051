package chemspider

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompt fragt den Key auf out ab und liest ihn von in.
// An einem Terminal wird die Eingabe nicht angezeigt.
func TerminalPrompt(in *os.File, out io.Writer) KeyPrompt {
	return func() (string, error) {
		fmt.Fprint(out, "Enter ChemSpider API key: ")
		fd := int(in.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
