// Package prompt runs the interactive question flow that collects a
// project spec from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	clierrors "github.com/pystrap-dev/pystrap/internal/errors"
	"github.com/pystrap-dev/pystrap/internal/project"
)

// ClearAnswer empties an optional field that has a default.
const ClearAnswer = "-"

// Defaults are the answers offered when the user just presses Enter.
type Defaults struct {
	Name                    string
	Description             string
	AuthorName              string
	AuthorEmail             string
	Version                 string
	PythonVersionConstraint string
	Distributable           bool
}

// Prompter asks questions on out and reads answers from in, one per line.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
}

// New creates a Prompter. maxAttempts below 1 is treated as 1.
func New(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Prompter{in: bufio.NewReader(in), out: out, maxAttempts: maxAttempts}
}

var errEndOfInput = errors.New("input ended before an answer was given")

// Run asks for the project name, description, author name, author email,
// Python version constraint and whether to make the project distributable,
// in that order. Each answer is validated as it is given; an invalid answer
// is reported and asked again.
func (p *Prompter) Run(d Defaults) (project.Spec, error) {
	fmt.Fprintf(p.out, "Creating a new Python project. Press Enter to accept the [default], %q to leave a field empty.\n\n", ClearAnswer)

	name, err := p.ask("project name", "Project name", d.Name, true, project.ValidateName)
	if err != nil {
		return project.Spec{}, err
	}
	description, err := p.ask("description", "Description", d.Description, false, nil)
	if err != nil {
		return project.Spec{}, err
	}
	authorName, err := p.ask("author name", "Author name", d.AuthorName, false, nil)
	if err != nil {
		return project.Spec{}, err
	}
	authorEmail, err := p.ask("author email", "Author email", d.AuthorEmail, false, project.ValidateEmail)
	if err != nil {
		return project.Spec{}, err
	}
	constraint, err := p.ask("python version constraint", "Python version constraint", d.PythonVersionConstraint, true, project.ValidateConstraint)
	if err != nil {
		return project.Spec{}, err
	}
	distributable, err := p.confirm("distributable", "Create setup.py for a distributable package?", d.Distributable)
	if err != nil {
		return project.Spec{}, err
	}

	return project.New(project.Spec{
		Name:                    name,
		AuthorName:              authorName,
		AuthorEmail:             authorEmail,
		Description:             description,
		Version:                 d.Version,
		PythonVersionConstraint: constraint,
		Distributable:           distributable,
	})
}

// ask reads one answer, re-asking until validate accepts it or the attempts
// run out. An empty answer takes def.
func (p *Prompter) ask(field, label, def string, required bool, validate func(string) error) (string, error) {
	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if def != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, def)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}

		answer, err := p.readLine()
		eof := errors.Is(err, errEndOfInput)
		if err != nil && !eof {
			return "", err
		}

		switch {
		case answer == "" && !eof:
			answer = def
		case answer == "" && eof:
			fmt.Fprintln(p.out)
			if def == "" && required {
				return "", clierrors.NewValidationError(field, "", errEndOfInput.Error())
			}
			answer = def
		case answer == ClearAnswer && !required:
			answer = ""
		}

		if answer == "" && required {
			lastErr = errors.New("a value is required")
		} else if validate != nil {
			lastErr = validate(answer)
		} else {
			lastErr = nil
		}
		if lastErr == nil {
			return answer, nil
		}
		if eof {
			return "", clierrors.NewValidationError(field, answer, lastErr.Error())
		}
		p.reject(lastErr)
	}
	return "", clierrors.PromptAttemptsExhausted(field, p.maxAttempts, lastErr)
}

// confirm asks a yes/no question. An empty answer or end of input takes def.
func (p *Prompter) confirm(field, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		fmt.Fprintf(p.out, "%s %s: ", question, hint)

		answer, err := p.readLine()
		if errors.Is(err, errEndOfInput) {
			fmt.Fprintln(p.out)
			return def, nil
		}
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		lastErr = fmt.Errorf("answer %q is not yes or no", answer)
		p.reject(lastErr)
	}
	return false, clierrors.PromptAttemptsExhausted(field, p.maxAttempts, lastErr)
}

// readLine returns the next trimmed line. A final line without a newline is
// returned with a nil error; errEndOfInput is returned once nothing is left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", errEndOfInput
			}
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) reject(err error) {
	fmt.Fprintf(p.out, "  %s %v\n", color.RedString("✗"), err)
}
