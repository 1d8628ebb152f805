// Package input collects the interactive answers a run starts from.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yourorg/codespec/pkg/types"
)

const (
	pathQuestion        = "Please provide the path to your API code:"
	titleQuestion       = "Please provide a title for your OpenAPI spec:"
	descriptionQuestion = "Please provide a description for your OpenAPI spec:"
)

// ErrEmptyPath is reported to the operator when no path is given.
var ErrEmptyPath = errors.New("path cannot be empty")

// Prompter asks line-oriented questions on a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// Ask prints message and reads one line, returned without its line
// terminator. When validate rejects the answer the reason is printed and
// the question is asked again.
func (p *Prompter) Ask(message string, validate func(string) error) (string, error) {
	for {
		fmt.Fprintf(p.out, "? %s ", message)
		line, err := p.in.ReadString('\n')
		answer := strings.TrimRight(line, "\r\n")
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		eof := errors.Is(err, io.EOF)
		if eof {
			fmt.Fprintln(p.out)
		}
		if validate != nil {
			if verr := validate(answer); verr != nil {
				if eof {
					return "", fmt.Errorf("%s: input closed: %w", message, verr)
				}
				fmt.Fprintf(p.out, ">> %s\n", verr)
				continue
			}
		}
		return answer, nil
	}
}

// Collect asks for path, title and description in that order.
func Collect(p *Prompter) (types.UserInput, error) {
	var in types.UserInput
	var err error
	if in.Path, err = p.Ask(pathQuestion, requirePath); err != nil {
		return types.UserInput{}, err
	}
	in.Path = strings.TrimSpace(in.Path)
	if in.Title, err = p.Ask(titleQuestion, nil); err != nil {
		return types.UserInput{}, err
	}
	if in.Description, err = p.Ask(descriptionQuestion, nil); err != nil {
		return types.UserInput{}, err
	}
	return in, nil
}

func requirePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyPath
	}
	return nil
}
