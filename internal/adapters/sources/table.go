package sources

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// table is a parsed HTML table: the last header row and the body rows, as
// whitespace-normalised cell text.
type table struct {
	header []string
	rows   [][]string
}

func parseTable(r io.Reader, selector string) (*table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedPage, err)
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: no %s", ErrUnexpectedPage, selector)
	}

	t := &table{}
	headRows := sel.Find("thead tr")
	if headRows.Length() > 0 {
		headRows.Last().Find("th, td").Each(func(_ int, c *goquery.Selection) {
			t.header = append(t.header, cellText(c))
		})
	}

	bodyRows := sel.Find("tbody tr")
	if len(t.header) == 0 {
		// Header-less markup: the first row holds the column names.
		first := sel.Find("tr").First()
		first.Find("th, td").Each(func(_ int, c *goquery.Selection) {
			t.header = append(t.header, cellText(c))
		})
		bodyRows = first.NextAll()
	}
	bodyRows.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td, th").Each(func(_ int, c *goquery.Selection) {
			row = append(row, cellText(c))
		})
		if len(row) > 0 {
			t.rows = append(t.rows, row)
		}
	})
	return t, nil
}

// column returns the index of the first header equal to name, or -1.
func (t *table) column(name string) int {
	for i, h := range t.header {
		if h == name {
			return i
		}
	}
	return -1
}

// columnContaining returns the first (or last) header index containing sub, or -1.
func (t *table) columnContaining(sub string, last bool) int {
	idx := -1
	for i, h := range t.header {
		if strings.Contains(h, sub) {
			idx = i
			if !last {
				return idx
			}
		}
	}
	return idx
}

// cellText joins the text of a cell's child nodes with single spaces, so
// "<a>Name</a><small>TEAM</small>" reads "Name TEAM".
func cellText(c *goquery.Selection) string {
	var parts []string
	c.Contents().Each(func(_ int, n *goquery.Selection) {
		if s := strings.TrimSpace(n.Text()); s != "" {
			parts = append(parts, s)
		}
	})
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
