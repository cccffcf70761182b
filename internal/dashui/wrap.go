package dashui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r       rune
	width   int
	isSpace bool
}

// wrapText word-wraps plain text to width cells. Continuation lines keep the
// leading indentation of the line they came from.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, wrapLine(line, width))
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	if runewidth.StringWidth(indent) >= width/2 {
		indent = ""
	}
	indentWidth := runewidth.StringWidth(indent)

	cells := make([]cell, 0, len(line))
	for _, r := range line {
		cells = append(cells, cell{r: r, width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}

	var out strings.Builder
	current := make([]cell, 0, width)
	currentWidth := 0
	lastSpaceIdx := -1
	// spaces inside the first line's indentation are not break points
	floor := len(indent)
	flush := func(part []cell) {
		out.WriteString(strings.TrimRight(renderCells(part), " "))
		out.WriteByte('\n')
		out.WriteString(indent)
	}

	for i := 0; i < len(cells); {
		c := cells[i]
		limit := width
		if out.Len() > 0 {
			limit = width - indentWidth
		}
		if currentWidth+c.width > limit && len(current) > 0 {
			if lastSpaceIdx >= 0 {
				flush(current[:lastSpaceIdx])
				current = append([]cell{}, current[lastSpaceIdx+1:]...)
			} else {
				flush(current)
				current = current[:0]
			}
			floor = 0
			currentWidth = widthOf(current)
			lastSpaceIdx = lastSpace(current)
			continue
		}
		current = append(current, c)
		currentWidth += c.width
		if c.isSpace && len(current) > floor {
			lastSpaceIdx = len(current) - 1
		}
		i++
	}
	out.WriteString(renderCells(current))
	return out.String()
}

func renderCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteRune(c.r)
	}
	return b.String()
}

func widthOf(cells []cell) int {
	total := 0
	for _, c := range cells {
		total += c.width
	}
	return total
}

func lastSpace(cells []cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].isSpace {
			return i
		}
	}
	return -1
}
