package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// StepReporter prints one numbered line per completed step, such as
// "[2/6] gemini-pro v1beta: ok".
type StepReporter struct {
	mu     sync.Mutex
	total  int
	done   int
	writer io.Writer
}

// NewStepReporter creates a reporter for total steps that writes to w.
// If w is nil, it defaults to os.Stdout.
func NewStepReporter(w io.Writer, total int) *StepReporter {
	if w == nil {
		w = os.Stdout
	}
	return &StepReporter{total: total, writer: w}
}

// Step records a finished step with its label and outcome.
func (p *StepReporter) Step(label string, ok bool, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	mark := "✗"
	if ok {
		mark = "✓"
	}
	if detail != "" {
		fmt.Fprintf(p.writer, "[%d/%d] %s %s: %s\n", p.done, p.total, mark, label, detail)
		return
	}
	fmt.Fprintf(p.writer, "[%d/%d] %s %s\n", p.done, p.total, mark, label)
}

// Done returns how many steps have been reported.
func (p *StepReporter) Done() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
