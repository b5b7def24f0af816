package report

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/rootfind/solve"
)

var (
	colorTitle = lipgloss.Color("#7C3AED")
	colorOK    = lipgloss.Color("#10B981")
	colorWarn  = lipgloss.Color("#F59E0B")
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
)

type consoleStyles struct {
	title, params, label, ok, warn, err lipgloss.Style
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	return consoleStyles{
		title:  r.NewStyle().Bold(true).Foreground(colorTitle),
		params: r.NewStyle().Foreground(colorMuted).Italic(true).PaddingLeft(2),
		label:  r.NewStyle().Width(14).PaddingLeft(2),
		ok:     r.NewStyle().Foreground(colorOK).Bold(true),
		warn:   r.NewStyle().Foreground(colorWarn),
		err:    r.NewStyle().Foreground(colorError).Bold(true),
	}
}

// Console is a Sink printing a styled report of each line. Colors are used
// only when the output is a terminal that supports them.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	st    consoleStyles
	iters bool
}

// NewConsole creates a Console writing to w. If iters is true, every
// iteration is printed as well.
func NewConsole(w io.Writer, iters bool) *Console {
	return &Console{w: w, st: newConsoleStyles(lipgloss.NewRenderer(w)), iters: iters}
}

func (c *Console) Begin(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.st.title.Render("line "+strconv.Itoa(e.Line)+": "+e.Text) + "\n"
	if e.Method != "" {
		s += c.st.params.Render(e.Method.Label()+"  "+e.Params) + "\n"
	}
	_, err := io.WriteString(c.w, s)
	return err
}

func (c *Console) Iteration(e Entry, it solve.Iteration) error {
	if !c.iters {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "  %4d  x = %-22.12g |f(x)| = %-14.6e step = %.6e\n", it.N, it.X, it.Residual, it.Step)
	return err
}

func (c *Console) End(e Entry, res solve.Result, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var s string
	switch {
	case err != nil:
		s = c.field("error", c.st.err.Render(err.Error()))
	default:
		s = c.field("root", strconv.FormatFloat(res.Root, 'f', 10, 64)) +
			c.field("|f(root)|", strconv.FormatFloat(res.Residual, 'e', 6, 64)) +
			c.field("step", strconv.FormatFloat(res.Step, 'e', 6, 64)) +
			c.field("iterations", strconv.Itoa(res.Iterations))
		if res.Converged {
			s += c.field("status", c.st.ok.Render(Status(res, nil)))
		} else {
			s += c.field("status", c.st.warn.Render(res.Warning().Error()))
		}
	}
	_, werr := io.WriteString(c.w, s+"\n")
	return werr
}

func (c *Console) field(name, value string) string {
	return c.st.label.Render(name) + value + "\n"
}

func (c *Console) Close() error { return nil }
