package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/role-scout/internal/model"
)

func TestRow_Apply(t *testing.T) {
	base := Row{Title: "CEO", CompanyName: "Acme", Source: "old"}

	got := base.Apply(model.LookupResult{FirstName: "Jane", LastName: "Doe", PrimarySource: "https://acme.com"})
	assert.Equal(t, Row{Title: "CEO", CompanyName: "Acme", FirstName: "Jane", LastName: "Doe", Source: "https://acme.com"}, got)

	got = base.Apply(model.LookupResult{FirstName: "Jane", LastName: "Doe", ValidationSources: []string{"https://wiki.org/x"}})
	assert.Equal(t, "https://wiki.org/x", got.Source)

	got = base.Apply(model.LookupResult{FirstName: "Jane", LastName: "Doe"})
	assert.Equal(t, "old", got.Source)

	got = base.Apply(model.NewErrorResult(model.ErrorKindRateLimit, model.MsgRateLimit, "Acme", "CEO", 1, 0))
	assert.Equal(t, "Lookup error: LLM rate limit reached", got.Source)
	assert.Empty(t, got.FirstName)
}

func TestRow_Lookupable(t *testing.T) {
	assert.True(t, Row{Title: "CEO", CompanyName: "Acme"}.Lookupable())
	assert.False(t, Row{Title: "CEO", CompanyName: " "}.Lookupable())
	assert.False(t, Row{CompanyName: "Acme"}.Lookupable())
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffTitle,Company Name,First Name,Last Name,Source\n" +
		"CEO,Acme,,,\n" +
		",,,,\n" +
		"CFO,\"Globex, Inc\",Hank,Scorpio,https://globex.com\n" +
		"CTO\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Title: "CEO", CompanyName: "Acme"}, rows[0])
	assert.Equal(t, Row{Title: "CFO", CompanyName: "Globex, Inc", FirstName: "Hank", LastName: "Scorpio", Source: "https://globex.com"}, rows[1])
	assert.Equal(t, Row{Title: "CTO"}, rows[2])
}

func TestReadCSV_ColumnOrder(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Company Name,Notes,Title\nAcme,x,COO\n"))
	require.NoError(t, err)
	assert.Equal(t, []Row{{Title: "COO", CompanyName: "Acme"}}, rows)
}

func TestReadCSV_Empty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	rows := []Row{
		{Title: "CEO", CompanyName: "Acme", FirstName: "Jane", LastName: "Doe", Source: "https://acme.com"},
		{Title: "CFO", CompanyName: "Globex, Inc"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\ufeffTitle,Company Name,First Name,Last Name,Source\n")))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestXLSX_RoundTrip(t *testing.T) {
	rows := []Row{
		{Title: "CEO", CompanyName: "Acme", FirstName: "Jane", LastName: "Doe", Source: "https://acme.com"},
		{Title: "CFO", CompanyName: "Globex"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, SheetName, f.Sheets[0].Name)

	got, err := ReadXLSX(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadXLSX_Invalid(t *testing.T) {
	_, err := ReadXLSX([]byte("not a zip"))
	assert.Error(t, err)
}
