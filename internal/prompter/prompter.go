package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator yes/no questions during init.
type Prompter interface {
	Confirm(question string) (bool, error)
}

type TextPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *TextPrompter {
	return &TextPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm defaults to no. An answer piped without a trailing newline still
// counts; io.EOF is returned only when the input closed before any answer.
func (p *TextPrompter) Confirm(q string) (bool, error) {
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", q); err != nil {
		return false, err
	}

	resp, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && resp != "") {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(resp)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
