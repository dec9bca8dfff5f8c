// Package prompt asks the operator yes/no questions during a run.
package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Confirmer asks the operator to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// HuhConfirmer asks on the terminal with a huh confirm form.
type HuhConfirmer struct{}

// Confirm implements Confirmer. Aborting the form (ctrl+c) counts as "no".
func (HuhConfirmer) Confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Static always gives the same answer. It is used for unattended runs.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(context.Context, string, string) (bool, error) {
	return bool(s), nil
}

// Default returns the terminal confirmer when interactive is requested and
// stdin and stdout are terminals, otherwise a confirmer that always declines.
func Default(interactive bool) Confirmer {
	if interactive && IsTTY(os.Stdin) && IsTTY(os.Stdout) {
		return HuhConfirmer{}
	}
	return Static(false)
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Sequence answers with the given replies in order, then declines.
// Useful for scripted tests of prompt loops.
type Sequence struct {
	Replies []bool
	Asked   int
}

// Confirm implements Confirmer.
func (s *Sequence) Confirm(context.Context, string, string) (bool, error) {
	s.Asked++
	if len(s.Replies) == 0 {
		return false, nil
	}
	reply := s.Replies[0]
	s.Replies = s.Replies[1:]
	return reply, nil
}
