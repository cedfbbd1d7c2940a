// Package wizard runs the interactive first-time setup as an ordered list
// of question steps read from a line-oriented input.
package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"

	"github.com/coto-cli/coto/pkg/types"
)

// ErrAborted is returned when input ends before the wizard finishes.
var ErrAborted = errors.New("setup aborted: input closed")

// Step is one question. When Confirm is set the user is first asked a
// yes/no question and the step is skipped on "no".
type Step struct {
	Confirm        string
	ConfirmDefault bool
	Question       string
	Default        func(types.Settings) string
	Validate       func(string) error
	Secret         bool
	Apply          func(*types.Settings, string)
}

// Wizard reads answers from in and writes prompts to out.
type Wizard struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func() (string, error)
}

// New creates a wizard. When in is a terminal, secret answers are read
// without echo.
func New(in io.Reader, out io.Writer) *Wizard {
	w := &Wizard{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		w.readSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(b), err
		}
	}
	return w
}

// Run applies steps in order to a copy of current and returns the result.
func (w *Wizard) Run(current types.Settings, steps []Step) (types.Settings, error) {
	result := current
	for _, step := range steps {
		if step.Confirm != "" {
			ok, err := w.Confirm(step.Confirm, step.ConfirmDefault)
			if err != nil {
				return current, err
			}
			if !ok {
				continue
			}
		}

		answer, err := w.ask(step, result)
		if err != nil {
			return current, err
		}
		step.Apply(&result, answer)
	}
	return result, nil
}

func (w *Wizard) ask(step Step, current types.Settings) (string, error) {
	def := ""
	if step.Default != nil {
		def = step.Default(current)
	}

	for {
		if def != "" && !step.Secret {
			fmt.Fprintf(w.out, "%s [%s]: ", step.Question, def)
		} else {
			fmt.Fprintf(w.out, "%s: ", step.Question)
		}

		answer, err := w.read(step.Secret)
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}

		if step.Validate != nil {
			if err := step.Validate(answer); err != nil {
				fmt.Fprintf(w.out, "  %v\n", err)
				continue
			}
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question. An empty answer picks def.
func (w *Wizard) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(w.out, "%s [%s]: ", question, hint)
		answer, err := w.read(false)
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
		fmt.Fprintln(w.out, "  please answer y or n")
	}
}

func (w *Wizard) read(secret bool) (string, error) {
	if secret && w.readSecret != nil {
		s, err := w.readSecret()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}

	line, err := w.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]*)?-[a-z]+-\d+$`)

// NotEmpty rejects blank answers.
func NotEmpty(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

// ValidRegion accepts AWS region names such as us-east-1 or us-gov-west-1.
func ValidRegion(s string) error {
	if !regionPattern.MatchString(s) {
		return fmt.Errorf("%q does not look like an AWS region (e.g. us-east-1)", s)
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// DefaultSteps returns the setup questions: API key, optional profile,
// optional region and model, in that order.
func DefaultSteps(defaultModel string) []Step {
	return []Step{
		{
			Question: "Enter your OpenAI API key",
			Secret:   true,
			Validate: NotEmpty("API key"),
			Apply:    func(s *types.Settings, v string) { s.OpenAIKey = v },
		},
		{
			Confirm:        "Set a default AWS CLI profile?",
			ConfirmDefault: true,
			Question:       "AWS profile name (as in ~/.aws/credentials or ~/.aws/config)",
			Default:        func(s types.Settings) string { return orDefault(s.DefaultProfile, "default") },
			Validate:       NotEmpty("profile"),
			Apply:          func(s *types.Settings, v string) { s.DefaultProfile = v },
		},
		{
			Confirm:        "Set a default AWS region?",
			ConfirmDefault: true,
			Question:       "AWS region",
			Default:        func(s types.Settings) string { return orDefault(s.DefaultRegion, "us-east-1") },
			Validate:       ValidRegion,
			Apply:          func(s *types.Settings, v string) { s.DefaultRegion = v },
		},
		{
			Question: "Default LLM model",
			Default:  func(s types.Settings) string { return orDefault(s.Model, defaultModel) },
			Validate: NotEmpty("model"),
			Apply:    func(s *types.Settings, v string) { s.Model = v },
		},
	}
}
