package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console is the line based prompt/display channel of the interactive client.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Prompt writes msg and blocks for one line of input. The returned line has
// its trailing newline and surrounding blanks removed. io.EOF is returned once
// input is exhausted.
func (c *Console) Prompt(msg string) (string, error) {
	if msg != "" {
		fmt.Fprint(c.out, msg)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// Display writes each line followed by a newline. Write failures are ignored.
func (c *Console) Display(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
}
