package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jakechorley/workshop/pkg/core/booking"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
)

// printer formats numbers with thousands separators
var printer = message.NewPrinter(language.English)

// formatCost renders a cost with two decimals and thousands separators
func formatCost(cost float64) string {
	return printer.Sprintf("%.2f", cost)
}

// formatCount renders an integer with thousands separators
func formatCount(count int) string {
	return printer.Sprintf("%d", count)
}

// statusLabel renders whether an assignment is complete
func statusLabel(complete bool) string {
	if complete {
		return okStyle.Render("complete")
	}
	return errorStyle.Render("incomplete")
}

// choiceLabel names a wishlist rank, OffWishlist being a forced day
func choiceLabel(rank int) string {
	if rank == booking.OffWishlist {
		return "forced"
	}
	return fmt.Sprintf("choice %d", rank)
}

// table lays out rows in left-aligned columns sized to their widest cell
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	headers := make([]string, len(t.headers))
	for i, header := range t.headers {
		headers[i] = padRight(header, widths[i])
	}
	fmt.Fprintln(w, headerStyle.Render(strings.Join(headers, "  ")))

	total := 0
	for _, width := range widths {
		total += width
	}
	total += 2 * (len(widths) - 1)
	fmt.Fprintln(w, separatorStyle.Render(strings.Repeat("─", total)))

	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(widths) {
				cells[i] = padRight(cell, widths[i])
			} else {
				cells[i] = cell
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// padRight pads by display width so styled cells line up
func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
