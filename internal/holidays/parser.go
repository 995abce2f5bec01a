package holidays

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrLayoutChanged is returned when the page no longer has the structure a
// parser was written for.
var ErrLayoutChanged = errors.New("holiday page layout changed")

// Parser extracts holiday records from a provider page
type Parser interface {
	// Parse reads an HTML document and returns its records in page order
	Parse(r io.Reader) ([]Record, error)

	// SchemaVersion names the page layout the parser understands
	SchemaVersion() string
}

const (
	tableSchemaVersion = "full-view-table/v1"
	tableSelector      = "table.full-view-table"
	minCells           = 3
)

// TableParser reads the calendrier-365.fr holiday table.
//
// Layout (full-view-table/v1): the first <table class="full-view-table">,
// one <tbody> row per holiday, cells in the order date, name, weekday and
// an optional days-remaining countdown.
type TableParser struct{}

// NewTableParser creates a parser for the full-view-table/v1 layout
func NewTableParser() *TableParser {
	return &TableParser{}
}

// SchemaVersion implements Parser
func (p *TableParser) SchemaVersion() string {
	return tableSchemaVersion
}

// Parse implements Parser. Rows with fewer than three cells, or without a
// date or a name, are skipped.
func (p *TableParser) Parse(r io.Reader) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no %s element (schema %s)", ErrLayoutChanged, tableSelector, tableSchemaVersion)
	}

	records := make([]Record, 0, 16)
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < minCells {
			return
		}

		cell := func(i int) string {
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		date := cell(0)
		name := cell(1)
		if date == "" || name == "" {
			return
		}

		records = append(records, Record{
			Date:          date,
			Name:          name,
			Weekday:       cell(2),
			DaysRemaining: ParseDaysRemaining(cell(3)),
		})
	})

	return records, nil
}
