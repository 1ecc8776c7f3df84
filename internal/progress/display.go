package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows step progress on out. On a terminal a spinner runs while
// a step is in progress; otherwise only the result lines are printed.
type Display struct {
	out          io.Writer
	capabilities TerminalCapabilities
	current      *StepInfo
	spinner      *spinner.Spinner
	symbols      ProgressSymbols
}

// NewDisplay creates a display writing to out with the given terminal capabilities
func NewDisplay(out io.Writer, caps TerminalCapabilities) *Display {
	return &Display{
		out:          out,
		capabilities: caps,
		symbols:      SelectSymbols(caps),
	}
}

// StartStep begins displaying progress for a step
func (d *Display) StartStep(step StepInfo) error {
	if err := step.Validate(); err != nil {
		return err
	}
	d.current = &step

	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
			spinner.WithWriter(d.out),
		)
		d.spinner.Suffix = " " + buildStepMessage(step)
		d.spinner.Start()
	}
	return nil
}

// CompleteStep stops the spinner and displays completion status
func (d *Display) CompleteStep(step StepInfo, detail string) error {
	d.StopSpinner()

	mark := checkmark(d.symbols, d.capabilities.SupportsColor)
	counter := formatStepCounter(step.Number, step.TotalSteps)
	if detail != "" {
		fmt.Fprintf(d.out, "%s %s %s: %s\n", mark, counter, capitalize(step.Name), detail)
	} else {
		fmt.Fprintf(d.out, "%s %s %s\n", mark, counter, capitalize(step.Name))
	}

	d.current = nil
	return nil
}

// FailStep stops the spinner and displays failure status
func (d *Display) FailStep(step StepInfo, err error) error {
	d.StopSpinner()

	mark := failureMark(d.symbols, d.capabilities.SupportsColor)
	counter := formatStepCounter(step.Number, step.TotalSteps)
	fmt.Fprintf(d.out, "%s %s %s failed: %v\n", mark, counter, capitalize(step.Name), err)

	d.current = nil
	return nil
}

// StopSpinner stops the spinner without showing completion/failure
func (d *Display) StopSpinner() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
