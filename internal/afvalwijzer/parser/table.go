package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractTables returns every <table> in the document as a grid of cell
// texts. Rows of nested tables belong to the nested table only.
func ExtractTables(r io.Reader) ([][][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var tables [][][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		grid := [][]string{}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if !tr.Closest("table").IsSelection(table) {
				return
			}
			row := []string{}
			tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, cellText(cell.Nodes[0]))
			})
			grid = append(grid, row)
		})
		tables = append(tables, grid)
	})

	return tables, nil
}

// FirstTable returns the grid of the first table in page, or an empty grid
// when the page has no table or cannot be parsed.
func FirstTable(page string) [][]string {
	tables, err := ExtractTables(strings.NewReader(page))
	if err != nil || len(tables) == 0 {
		return [][]string{}
	}
	return tables[0]
}

// cellText joins the trimmed text nodes below n with single spaces. Line
// breaks between elements therefore show up as a double space, which the
// extractor relies on to cut notes off category labels.
func cellText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				parts = append(parts, strings.TrimSpace(c.Data))
			case html.ElementNode:
				if c.Data == "script" || c.Data == "style" {
					continue
				}
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(strings.Join(parts, " "))
}
