package ledger

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/Unknow2778/farm-admin/internal/domain/price"
	"github.com/Unknow2778/farm-admin/internal/domain/product"
)

// Column names a price sheet must carry, matched case-insensitively and in
// any position.
const (
	headerCommodity = "commodity"
	headerPrice     = "price"
)

// HeaderError reports a price sheet whose header row lacks a required
// column. It aborts the whole import; row-level problems never do.
type HeaderError struct {
	Column string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid price sheet: missing %q column", e.Column)
}

// ParseSheet reads a comma-separated price sheet and matches each row's
// commodity against the catalog.
//
// The first line must name a commodity and a price column. Each later row is
// matched case-insensitively against every product whose name contains the
// commodity, or whose name the commodity contains; every such product yields
// one pending edit, so one row may fan out to several products. Rows with an
// empty commodity, an unparseable price, a non-positive price, or too few
// cells are skipped silently.
func ParseSheet(r io.Reader, catalog []product.Product) ([]price.PendingEdit, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, errors.Wrap(err, "read sheet")
		}
		return nil, &HeaderError{Column: headerCommodity}
	}

	commodityIdx, priceIdx := -1, -1
	for i, cell := range splitRow(sc.Text()) {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case headerCommodity:
			if commodityIdx < 0 {
				commodityIdx = i
			}
		case headerPrice:
			if priceIdx < 0 {
				priceIdx = i
			}
		}
	}
	if commodityIdx < 0 {
		return nil, &HeaderError{Column: headerCommodity}
	}
	if priceIdx < 0 {
		return nil, &HeaderError{Column: headerPrice}
	}

	var edits []price.PendingEdit
	for sc.Scan() {
		cells := splitRow(sc.Text())
		if commodityIdx >= len(cells) || priceIdx >= len(cells) {
			continue
		}

		commodity := strings.ToLower(strings.TrimSpace(cells[commodityIdx]))
		if commodity == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(cells[priceIdx]))
		if err != nil || !v.IsPositive() {
			continue
		}

		for _, p := range catalog {
			if matchCommodity(commodity, p.Name) {
				edits = append(edits, price.PendingEdit{ProductID: p.ID, Price: v})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read sheet")
	}
	return edits, nil
}

// Import parses the sheet and replaces the whole pending collection with the
// result, reporting how many edits were loaded. A header failure aborts the
// import with a notice and leaves the pending collection untouched.
func (l *Ledger) Import(r io.Reader, catalog []product.Product) (int, error) {
	edits, err := ParseSheet(r, catalog)
	if err != nil {
		l.notifier.Error("Import failed", err.Error())
		return 0, err
	}
	n := l.Replace(edits)
	l.notifier.Info("Prices loaded", fmt.Sprintf("%d prices ready to submit", n))
	return n, nil
}

// splitRow breaks one sheet line into cells. The accepted dialect is plain
// comma separation with no quoting; a trailing carriage return from CRLF
// sheets is dropped.
func splitRow(line string) []string {
	return strings.Split(strings.TrimSuffix(line, "\r"), ",")
}

// matchCommodity reports whether a row's commodity names the product:
// either string may contain the other, compared case-insensitively.
func matchCommodity(commodity, productName string) bool {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" || commodity == "" {
		return false
	}
	return strings.Contains(commodity, name) || strings.Contains(name, commodity)
}
