package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quickread/internal/model"
)

type readColumn struct {
	title string
	right bool
	cell  func(model.ReadRecord) string
}

var readColumns = []readColumn{
	{title: "Ended", cell: func(rec model.ReadRecord) string {
		return rec.EndedAt.Local().Format("2006-01-02 15:04")
	}},
	{title: "Source", cell: func(rec model.ReadRecord) string { return rec.Source }},
	{title: "Words", right: true, cell: func(rec model.ReadRecord) string {
		return fmt.Sprintf("%d/%d", rec.WordsRead, rec.TotalWords)
	}},
	{title: "Done", right: true, cell: func(rec model.ReadRecord) string {
		return fmt.Sprintf("%.0f%%", Completion(rec)*100)
	}},
	{title: "Set WPM", right: true, cell: func(rec model.ReadRecord) string { return fmt.Sprintf("%d", rec.WPM) }},
	{title: "Eff. WPM", right: true, cell: func(rec model.ReadRecord) string {
		return fmt.Sprintf("%.1f", EffectiveWPM(rec))
	}},
	{title: "Time", right: true, cell: func(rec model.ReadRecord) string { return FormatClock(rec.Duration()) }},
}

// RenderReadTable prints one row per read under a header, columns sized to
// their widest cell in terminal cells.
func RenderReadTable(w io.Writer, reads []model.ReadRecord) error {
	if len(reads) == 0 {
		return nil
	}
	cells := make([][]string, len(reads))
	widths := make([]int, len(readColumns))
	for i, col := range readColumns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for r, rec := range reads {
		cells[r] = make([]string, len(readColumns))
		for i, col := range readColumns {
			cells[r][i] = col.cell(rec)
			widths[i] = max(widths[i], runewidth.StringWidth(cells[r][i]))
		}
	}

	header := make([]string, len(readColumns))
	for i, col := range readColumns {
		header[i] = col.title
	}
	if _, err := fmt.Fprintln(w, alignRow(header, widths)); err != nil {
		return err
	}
	for _, row := range cells {
		if _, err := fmt.Fprintln(w, alignRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

func alignRow(row []string, widths []int) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		if readColumns[i].right {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(parts, " ")
}
