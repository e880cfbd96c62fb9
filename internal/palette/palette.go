// Package palette assigns display colors to titles and genres in order of first appearance.
package palette

import (
	"strings"

	"github.com/fatih/color"
)

// DefaultColors is the rotation used when no colors are supplied.
var DefaultColors = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
	color.New(color.FgRed),
	color.New(color.FgHiCyan),
	color.New(color.FgHiGreen),
	color.New(color.FgHiYellow),
	color.New(color.FgHiMagenta),
}

// Palette maps keys to colors. The mapping is presentation-only and may be reset at any time.
// A Palette is not safe for concurrent use; each renderer owns its own.
type Palette struct {
	colors   []*color.Color
	assigned map[string]int
	next     int
}

// New returns a palette rotating through colors, or DefaultColors when none are given.
func New(colors ...*color.Color) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{colors: colors, assigned: make(map[string]int)}
}

// Color returns the color of key, assigning the next free slot on first sight.
// Keys are matched case-insensitively.
func (p *Palette) Color(key string) *color.Color {
	return p.colors[p.index(key)]
}

// Sprint renders text in the color assigned to key.
func (p *Palette) Sprint(key, text string) string {
	return p.Color(key).Sprint(text)
}

func (p *Palette) index(key string) int {
	norm := strings.ToLower(strings.TrimSpace(key))
	if idx, ok := p.assigned[norm]; ok {
		return idx
	}
	idx := p.next % len(p.colors)
	p.assigned[norm] = idx
	p.next++
	return idx
}

// Len returns how many keys have been assigned.
func (p *Palette) Len() int {
	return len(p.assigned)
}

// Reset forgets every assignment.
func (p *Palette) Reset() {
	p.assigned = make(map[string]int)
	p.next = 0
}
