package initiator

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ConsoleReporter prints completions. Errors are always printed, successful
// accesses only when Verbose is set.
type ConsoleReporter struct {
	Out     io.Writer
	Verbose bool

	errColor *color.Color
	okColor  *color.Color
	irqColor *color.Color
}

// NewConsoleReporter creates a reporter that writes to out.
func NewConsoleReporter(out io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{
		Out:      out,
		Verbose:  verbose,
		errColor: color.New(color.FgRed, color.Bold),
		okColor:  color.New(color.FgGreen),
		irqColor: color.New(color.FgYellow),
	}
}

// NotifyCompletion prints the completion.
func (r *ConsoleReporter) NotifyCompletion(c Completion) {
	req := c.Request

	if c.Status.IsError() {
		r.errColor.Fprintf(r.Out,
			"%s: %s 0x%x failed with %s\n",
			c.DoneTime, req.Command, req.Address, c.Status)

		return
	}

	if !r.Verbose {
		return
	}

	path := "bus"
	if c.Direct {
		path = "dmi"
	}

	r.okColor.Fprintf(r.Out, "%s: %s 0x%x %s via %s (%s)\n",
		c.DoneTime, req.Command, req.Address,
		formatData(req.Data, req.Length), path, c.Latency())
}

// NotifyInterrupt prints the interrupt.
func (r *ConsoleReporter) NotifyInterrupt(irq Interrupt) {
	r.irqColor.Fprintf(r.Out, "%s: interrupt 0x%x %s\n",
		irq.Time, irq.Address, formatData(irq.Data, len(irq.Data)))
}

func formatData(data []byte, length int) string {
	if length > len(data) {
		length = len(data)
	}

	return fmt.Sprintf("% x", data[:length])
}
