package report

import (
	"strings"

	"github.com/sells-group/role-scout/internal/model"
)

// Column headers of a batch sheet, in output order.
const (
	ColTitle     = "Title"
	ColCompany   = "Company Name"
	ColFirstName = "First Name"
	ColLastName  = "Last Name"
	ColSource    = "Source"
)

// Header is the batch sheet header row.
var Header = []string{ColTitle, ColCompany, ColFirstName, ColLastName, ColSource}

// Row is one line of a batch sheet.
type Row struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Source      string `json:"source"`
}

// Request returns the lookup the row asks for.
func (r Row) Request() model.LookupRequest {
	return model.LookupRequest{Company: r.CompanyName, Role: r.Title}.Normalize()
}

// Lookupable reports whether the row has both a title and a company.
func (r Row) Lookupable() bool {
	return r.Request().Valid()
}

// Values returns the row in Header order.
func (r Row) Values() []string {
	return []string{r.Title, r.CompanyName, r.FirstName, r.LastName, r.Source}
}

// Apply fills the row from a lookup result. The source falls back to the
// first validation source, then to the row's existing value. Error results
// leave the name blank and report the error in Source.
func (r Row) Apply(res model.LookupResult) Row {
	if res.IsError() {
		r.FirstName, r.LastName = "", ""
		r.Source = "Lookup error: " + res.Error
		return r
	}
	r.FirstName = strings.TrimSpace(res.FirstName)
	r.LastName = strings.TrimSpace(res.LastName)
	if s := res.BestSource(); s != "" {
		r.Source = s
	}
	return r
}

// rowsFromRecords maps records to rows by header name. The first record is
// the header; unknown columns are ignored and missing ones left blank.
func rowsFromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	idx := map[string]int{}
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		rows = append(rows, Row{
			Title:       get(rec, ColTitle),
			CompanyName: get(rec, ColCompany),
			FirstName:   get(rec, ColFirstName),
			LastName:    get(rec, ColLastName),
			Source:      get(rec, ColSource),
		})
	}
	return rows
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
