package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

// ErrNoData means the page carried no schedule table. The municipality
// serves such a page for an unknown postcode or street number.
var ErrNoData = errors.New("no collection table found")

const (
	labelSeparator = "  "
	noteMarker     = "*"
	monthColumns   = 12

	chemicalWasteMarker = "Klein chemisch afval kunt u"
	chemicalWasteLabel  = "Klein chemisch afval"
)

type Parser struct {
	logger logger.Logger
}

func New(logger logger.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse locates the first table in page and extracts its schedule for year.
func (p *Parser) Parse(page string, year int) (models.CollectionSchedule, error) {
	grid := FirstTable(page)
	p.logger.Debug("Located collection table", "rows", len(grid), "year", year)

	schedule, err := ExtractSchedule(grid, year)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Extracted collection schedule",
		"categories", len(schedule),
		"year", year)

	return schedule, nil
}

// ExtractSchedule converts table rows into a schedule. The first row is the
// header. Column 0 holds the category label and columns 1 to 12 hold the
// days of each month on which that category is collected.
//
// A row without a label continues the category of the row above it.
// Unparseable day tokens are dropped. An empty grid yields ErrNoData.
func ExtractSchedule(grid [][]string, year int) (models.CollectionSchedule, error) {
	if len(grid) == 0 {
		return nil, ErrNoData
	}

	schedule := make(models.CollectionSchedule)
	current := ""

	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}

		if label := NormalizeLabel(row[0]); label != "" {
			current = label
			schedule[current] = []models.CalendarDate{}
		}
		if current == "" {
			continue
		}

		for col := 1; col <= monthColumns && col < len(row); col++ {
			days := parseDays(row[col], year, time.Month(col))
			schedule[current] = append(schedule[current], days...)
		}
	}

	return schedule, nil
}

// NormalizeLabel strips the notes the site appends after a double space and
// shortens the verbose chemical waste label.
func NormalizeLabel(raw string) string {
	label, _, _ := strings.Cut(raw, labelSeparator)
	label = strings.TrimSpace(label)
	if strings.Contains(label, chemicalWasteMarker) {
		return chemicalWasteLabel
	}
	return label
}

func parseDays(cell string, year int, month time.Month) []models.CalendarDate {
	var dates []models.CalendarDate
	for _, token := range strings.Split(cell, " ") {
		if d, ok := parseDay(token, year, month); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

func parseDay(token string, year int, month time.Month) (models.CalendarDate, bool) {
	token = strings.ReplaceAll(token, noteMarker, "")
	if len(token) == 0 || len(token) > 2 || strings.Trim(token, "0123456789") != "" {
		return models.CalendarDate{}, false
	}

	day, err := strconv.Atoi(token)
	if err != nil {
		return models.CalendarDate{}, false
	}

	d, err := models.NewCalendarDate(year, month, day)
	if err != nil {
		return models.CalendarDate{}, false
	}
	return d, true
}
