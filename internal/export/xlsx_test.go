package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type exportRow struct {
	Name  string
	Price decimal.Decimal
	Email *string
}

func exportColumns() []Column[exportRow] {
	return []Column[exportRow]{
		{Header: "Name", Value: func(r exportRow) any { return r.Name }},
		{Header: "Price", Value: func(r exportRow) any { return r.Price }},
		{Header: "Email", Value: func(r exportRow) any {
			if r.Email == nil {
				return nil
			}
			return *r.Email
		}},
	}
}

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestTableHeaderAndRow(t *testing.T) {
	rows := []exportRow{{Name: "A", Price: decimal.RequireFromString("10.5")}}

	data, err := Table("Orders", rows, exportColumns())
	require.NoError(t, err)

	got := readSheet(t, data, "Orders")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Name", "Price"}, got[0][:2])
	assert.Equal(t, "A", got[1][0])
	assert.Equal(t, "10.5", got[1][1])
}

func TestTablePreservesRowOrder(t *testing.T) {
	rows := []exportRow{
		{Name: "third", Price: decimal.NewFromInt(3)},
		{Name: "first", Price: decimal.NewFromInt(1)},
		{Name: "second", Price: decimal.NewFromInt(2)},
	}

	data, err := Table("Report", rows, exportColumns())
	require.NoError(t, err)

	got := readSheet(t, data, "Report")
	require.Len(t, got, 4)
	assert.Equal(t, "third", got[1][0])
	assert.Equal(t, "first", got[2][0])
	assert.Equal(t, "second", got[3][0])
}

func TestTableFullDecimalPrecision(t *testing.T) {
	rows := []exportRow{{Name: "precise", Price: decimal.RequireFromString("12345.6789")}}

	data, err := Table("Orders", rows, exportColumns())
	require.NoError(t, err)

	got := readSheet(t, data, "Orders")
	assert.Equal(t, "12345.6789", got[1][1])
}

func TestTableNilRendersEmptyCell(t *testing.T) {
	email := "a@example.com"
	rows := []exportRow{
		{Name: "has-email", Price: decimal.NewFromInt(1), Email: &email},
		{Name: "no-email", Price: decimal.NewFromInt(2)},
	}

	data, err := Table("Orders", rows, exportColumns())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	withEmail, err := f.GetCellValue("Orders", "C2")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", withEmail)

	empty, err := f.GetCellValue("Orders", "C3")
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestTableEmptyRowsStillHasHeader(t *testing.T) {
	data, err := Table("Orders", nil, exportColumns())
	require.NoError(t, err)

	got := readSheet(t, data, "Orders")
	require.Len(t, got, 1)
	assert.Equal(t, "Name", got[0][0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "orders_export_20240315.xlsx", Filename("orders_export", now))
}
