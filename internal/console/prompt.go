package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator yes/no questions
type Prompter interface {
	Confirm(question string, defaultAnswer bool) (bool, error)
}

// LinePrompter reads answers line by line from in and writes questions to out
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter over the given streams
func NewPrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm prints question and reads one line.
// Any answer starting with y or Y confirms; an empty answer or EOF gives defaultAnswer.
func (p *LinePrompter) Confirm(question string, defaultAnswer bool) (bool, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return false, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultAnswer, nil
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}
