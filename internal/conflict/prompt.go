package conflict

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// TerminalPrompter collects conflict decisions over a line-oriented stream,
// normally the controlling terminal. Invalid answers re-prompt; EOF aborts.
type TerminalPrompter struct {
	reader *bufio.Reader
	writer io.Writer
	color  bool
}

// NewTerminalPrompter wires a prompter to the given streams. Passing nil uses
// stdin and stderr, with color enabled only when stderr is a terminal and
// NO_COLOR is unset.
func NewTerminalPrompter(reader io.Reader, writer io.Writer) *TerminalPrompter {
	color := false
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stderr
		if _, noColor := os.LookupEnv("NO_COLOR"); !noColor {
			color = isatty.IsTerminal(os.Stderr.Fd())
		}
	}
	return &TerminalPrompter{
		reader: bufio.NewReader(reader),
		writer: writer,
		color:  color,
	}
}

// Prompt renders the conflict and reads a choice plus a scope.
func (p *TerminalPrompter) Prompt(ctx context.Context, c Conflict) (Decision, error) {
	fmt.Fprintf(p.writer, "\n%s %s already exists\n", p.paint("conflict:", ansiYellow), c.Entry.DestinationPath)
	fmt.Fprintf(p.writer, "  source:      %8s  modified %s\n",
		humanize.Bytes(uint64(c.Source.Size)), c.Source.ModTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.writer, "  destination: %8s  modified %s\n",
		humanize.Bytes(uint64(c.Destination.Size)), c.Destination.ModTime.Format("2006-01-02 15:04:05"))

	choice, err := p.readChoice(ctx)
	if err != nil {
		return Decision{}, err
	}
	scope, err := p.readScope(ctx)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Choice: choice, Scope: scope}, nil
}

func (p *TerminalPrompter) readChoice(ctx context.Context) (Choice, error) {
	for {
		answer, err := p.ask(ctx, "overwrite? [y]es / [n]o / [l]arger / [o]lder / n[e]wer: ")
		if err != nil {
			return "", err
		}
		switch answer {
		case "y", "yes":
			return ChoiceYes, nil
		case "n", "no":
			return ChoiceNo, nil
		case "l", "larger":
			return ChoiceLarger, nil
		case "o", "older":
			return ChoiceOlder, nil
		case "e", "ne", "newer":
			return ChoiceNewer, nil
		}
		fmt.Fprintf(p.writer, "unrecognized answer %q\n", answer)
	}
}

func (p *TerminalPrompter) readScope(ctx context.Context) (Scope, error) {
	for {
		answer, err := p.ask(ctx, "apply to: [c]urrent only / [a]ll / [f]ollowing: ")
		if err != nil {
			return "", err
		}
		switch answer {
		case "c", "current":
			return ScopeCurrentOnly, nil
		case "a", "all":
			return ScopeAll, nil
		case "f", "following":
			return ScopeAllFollowing, nil
		}
		fmt.Fprintf(p.writer, "unrecognized answer %q\n", answer)
	}
}

func (p *TerminalPrompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.writer, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

const (
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

func (p *TerminalPrompter) paint(text, code string) string {
	if !p.color {
		return text
	}
	return code + text + ansiReset
}
