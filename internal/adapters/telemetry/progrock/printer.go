package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vito/progrock"
)

// Printer is a progrock.Writer that renders status updates as plain text lines.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	names map[string]string
	done  map[string]bool
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		names: make(map[string]string),
		done:  make(map[string]bool),
	}
}

// WriteStatus renders vertex logs and completions.
func (p *Printer) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, v := range update.Vertexes {
		p.names[v.Id] = v.Name
	}

	for _, l := range update.Logs {
		name := p.names[l.Vertex]
		for _, line := range strings.Split(strings.TrimSuffix(string(l.Data), "\n"), "\n") {
			if _, err := fmt.Fprintf(p.out, "[%s] %s\n", name, line); err != nil {
				return err
			}
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil || p.done[v.Id] {
			continue
		}
		p.done[v.Id] = true

		var err error
		switch {
		case v.Error != nil:
			_, err = fmt.Fprintf(p.out, "FAIL %s: %s\n", v.Name, *v.Error)
		case v.Cached:
			_, err = fmt.Fprintf(p.out, "SKIP %s\n", v.Name)
		default:
			_, err = fmt.Fprintf(p.out, "DONE %s\n", v.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Close does nothing; the underlying writer is owned by the caller.
func (p *Printer) Close() error {
	return nil
}
