package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
)

// LogPanel is the read-only log view at the bottom of the window. Append
// may be called from any goroutine, which makes it usable as the write
// side of logger.Sink.
type LogPanel struct {
	lines binding.StringList
	list  *widget.List
	max   int
}

// NewLogPanel creates an empty panel keeping at most MaxLogLines lines
func NewLogPanel() *LogPanel {
	p := &LogPanel{lines: binding.NewStringList(), max: MaxLogLines}
	p.list = widget.NewListWithData(p.lines,
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		})
	return p
}

// Append adds a line on the UI goroutine
func (p *LogPanel) Append(line string) {
	fyne.Do(func() { p.appendLine(line) })
}

func (p *LogPanel) appendLine(line string) {
	_ = p.lines.Append(line)
	if n := p.lines.Length(); n > p.max {
		all, err := p.lines.Get()
		if err == nil {
			_ = p.lines.Set(all[n-p.max:])
		}
	}
	p.list.ScrollToBottom()
}

// Lines returns the lines currently shown
func (p *LogPanel) Lines() []string {
	lines, _ := p.lines.Get()
	return lines
}

// Widget returns the canvas object to place in a layout
func (p *LogPanel) Widget() fyne.CanvasObject {
	return p.list
}
