package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vito/progrock"
)

// Console is a progrock.Writer rendering vertex updates as plain lines:
// the command trace as it streams in, and one summary line per finished
// target. This is the consumer end of the tape; without it the recorder's
// updates would go nowhere.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	names map[string]string
	done  map[string]bool
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{
		out:   out,
		names: make(map[string]string),
		done:  make(map[string]bool),
	}
}

// WriteStatus renders one status update.
func (c *Console) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.Vertexes {
		c.names[v.Id] = v.Name
	}

	for _, l := range update.Logs {
		name := c.names[l.Vertex]
		for _, line := range strings.Split(strings.TrimSuffix(string(l.Data), "\n"), "\n") {
			if line == "" {
				continue
			}
			if _, err := fmt.Fprintf(c.out, "  %s | %s\n", name, line); err != nil {
				return err
			}
		}
	}

	// Summary lines come after the trace so a vertex's last output is not
	// printed below its verdict.
	for _, v := range update.Vertexes {
		if v.Completed == nil || c.done[v.Id] {
			continue
		}
		c.done[v.Id] = true

		var err error
		switch {
		case v.Error != nil:
			_, err = fmt.Fprintf(c.out, "✗ %s: %s\n", v.Name, *v.Error)
		case v.Cached:
			_, err = fmt.Fprintf(c.out, "● %s (cached)\n", v.Name)
		default:
			_, err = fmt.Fprintf(c.out, "✓ %s\n", v.Name)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// Close ends the rendering session.
func (c *Console) Close() error {
	return nil
}
