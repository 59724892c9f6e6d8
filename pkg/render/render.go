// Package render prints node, edge and log tables for terminals.
package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/DrSkyle/graphkit/pkg/graph"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorNeonGreen = lipgloss.Color("#00FF99")
	colorTextSub   = lipgloss.Color("#64748B")
	colorNeonPink  = lipgloss.Color("#FF0055")
)

// Renderer formats graph tables. The zero value renders plain text.
type Renderer struct {
	header   lipgloss.Style
	missing  lipgloss.Style
	selected lipgloss.Style
}

// New returns a renderer; styled adds colors for interactive terminals.
func New(styled bool) *Renderer {
	r := &Renderer{
		header:   lipgloss.NewStyle(),
		missing:  lipgloss.NewStyle(),
		selected: lipgloss.NewStyle(),
	}
	if styled {
		r.header = r.header.Bold(true).Foreground(colorNeonGreen)
		r.missing = r.missing.Foreground(colorTextSub)
		r.selected = r.selected.Bold(true).Foreground(colorNeonPink)
	}
	return r
}

// Nodes renders the node table. Selected nodes are marked with "*".
func (r *Renderer) Nodes(g *graph.Graph) string {
	cols := g.NodeColumns()
	t := r.newTable(append([]string{"", "id", "type"}, cols...))
	sel := idSet(g.SelectedNodes())
	for _, n := range g.Nodes() {
		row := []cell{r.mark(sel[n.ID]), plain(strconv.FormatInt(int64(n.ID), 10)), r.value(n.Type)}
		for _, c := range cols {
			row = append(row, r.value(n.Attrs.Get(c)))
		}
		t.add(row)
	}
	return t.String()
}

// Edges renders the edge table. Selected edges are marked with "*".
func (r *Renderer) Edges(g *graph.Graph) string {
	cols := g.EdgeColumns()
	t := r.newTable(append([]string{"", "id", "from", "to", "rel"}, cols...))
	sel := idSet(g.SelectedEdges())
	for _, e := range g.Edges() {
		row := []cell{
			r.mark(sel[e.ID]),
			plain(strconv.FormatInt(int64(e.ID), 10)),
			plain(strconv.FormatInt(int64(e.From), 10)),
			plain(strconv.FormatInt(int64(e.To), 10)),
			r.value(e.Rel),
		}
		for _, c := range cols {
			row = append(row, r.value(e.Attrs.Get(c)))
		}
		t.add(row)
	}
	return t.String()
}

// Log renders action-log entries with the same column names the log
// serializes to.
func (r *Renderer) Log(entries []graph.LogEntry) string {
	t := r.newTable([]string{"version_id", "function_used", "time_modified", "duration", "nodes", "edges", "d_n", "d_e"})
	for _, e := range entries {
		t.add([]cell{
			plain(strconv.Itoa(e.Seq)),
			plain(e.Op),
			plain(e.Time.UTC().Format(time.RFC3339)),
			plain(e.Duration.String()),
			plain(strconv.Itoa(e.Nodes)),
			plain(strconv.Itoa(e.Edges)),
			plain(signed(e.DN)),
			plain(signed(e.DE)),
		})
	}
	return t.String()
}

// Summary is a one-line description of g.
func (r *Renderer) Summary(g *graph.Graph) string {
	kind := "directed"
	if !g.Directed() {
		kind = "undirected"
	}
	return r.header.Render("graph "+g.ID()) + " " + kind +
		", " + strconv.Itoa(g.CountNodes()) + " nodes" +
		", " + strconv.Itoa(g.CountEdges()) + " edges" +
		", " + strconv.Itoa(len(g.Log())) + " log entries"
}

func (r *Renderer) value(v graph.Value) cell {
	if v.IsMissing() {
		return cell{text: "NA", style: &r.missing}
	}
	return plain(v.String())
}

func (r *Renderer) mark(on bool) cell {
	if !on {
		return plain("")
	}
	return cell{text: "*", style: &r.selected}
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func idSet[ID ~int64](ids []ID) map[ID]bool {
	out := make(map[ID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

type cell struct {
	text  string
	style *lipgloss.Style
}

func plain(s string) cell { return cell{text: s} }

type table struct {
	header []cell
	rows   [][]cell
}

func (r *Renderer) newTable(names []string) *table {
	t := &table{}
	for _, n := range names {
		t.header = append(t.header, cell{text: n, style: &r.header})
	}
	return t
}

func (t *table) add(row []cell) { t.rows = append(t.rows, row) }

// String pads every column to its widest cell and separates columns with
// two spaces. Widths are measured before styling.
func (t *table) String() string {
	widths := make([]int, len(t.header))
	for _, row := range append([][]cell{t.header}, t.rows...) {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c.text))
		}
	}

	var b strings.Builder
	for _, row := range append([][]cell{t.header}, t.rows...) {
		var line strings.Builder
		for i, c := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			text := c.text
			if c.style != nil {
				text = c.style.Render(text)
			}
			line.WriteString(text)
			line.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c.text)))
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
