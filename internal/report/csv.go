package report

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

var bom = []byte("\ufeff")

// ReadCSV parses a batch sheet. A leading UTF-8 byte order mark is
// tolerated.
func ReadCSV(r io.Reader) ([]Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "report: read csv")
	}
	return rowsFromRecords(records), nil
}

// WriteCSV writes rows with a header, prefixed with a byte order mark so
// spreadsheet tools detect UTF-8.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := w.Write(bom); err != nil {
		return eris.Wrap(err, "report: write csv bom")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}
