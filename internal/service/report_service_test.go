package service

import (
	"testing"
	"time"

	"backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(total string, payment models.PaymentStatus, date time.Time) models.Order {
	return models.Order{
		TotalPrice:    decimal.RequireFromString(total),
		PaymentStatus: payment,
		OrderDate:     date,
	}
}

var reportDay = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

func TestSummarizeOrders(t *testing.T) {
	orders := []models.Order{
		order("100", models.PaymentPaid, reportDay),
		order("200", models.PaymentPending, reportDay),
		order("50", models.PaymentPaid, reportDay),
	}

	summary := SummarizeOrders(orders)

	assert.Equal(t, 3, summary.TotalOrders)
	assert.True(t, summary.TotalSales.Equal(decimal.NewFromInt(350)),
		"got %s", summary.TotalSales)
	assert.Equal(t, 2, summary.PaidOrders)
	assert.InDelta(t, 66.67, summary.ConversionRate, 0.01)
	avg, _ := summary.AvgOrderValue.Float64()
	assert.InDelta(t, 116.67, avg, 0.01)
}

func TestSummarizeOrdersEmpty(t *testing.T) {
	summary := SummarizeOrders(nil)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.True(t, summary.TotalSales.IsZero())
	assert.True(t, summary.AvgOrderValue.IsZero())
	assert.Equal(t, 0, summary.PaidOrders)
	assert.Zero(t, summary.ConversionRate)
}

func TestSummarizeCountsUnpaidSales(t *testing.T) {
	// Total sales sums every order in range regardless of payment status.
	orders := []models.Order{
		order("75.25", models.PaymentPending, reportDay),
		order("24.75", models.PaymentRefunded, reportDay),
	}

	summary := SummarizeOrders(orders)
	assert.True(t, summary.TotalSales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 0, summary.PaidOrders)
	assert.Zero(t, summary.ConversionRate)
}

func TestDailyPaidSales(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC)

	orders := []models.Order{
		order("100", models.PaymentPaid, day3),
		order("40", models.PaymentPaid, day1),
		order("60", models.PaymentPaid, day1),
		// Unpaid orders never appear in the series.
		order("999", models.PaymentPending, day1),
	}

	points := DailyPaidSales(orders)

	require.Len(t, points, 2, "day without paid orders must be absent, not zero")
	assert.Equal(t, "2024-03-10", points[0].Date)
	assert.True(t, points[0].Sales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2024-03-12", points[1].Date)
	assert.True(t, points[1].Sales.Equal(decimal.NewFromInt(100)))
}

func TestDailyPaidSalesNoPaidOrders(t *testing.T) {
	orders := []models.Order{
		order("10", models.PaymentPending, reportDay),
	}

	assert.Empty(t, DailyPaidSales(orders))
}

func TestDailyBreakdown(t *testing.T) {
	day1 := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	orders := []models.Order{
		order("100", models.PaymentPaid, day1),
		order("50", models.PaymentPending, day1),
		order("30", models.PaymentPaid, day2),
	}

	rows := DailyBreakdown(orders)

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-10", rows[0].Date)
	assert.Equal(t, 2, rows[0].Orders)
	assert.True(t, rows[0].Revenue.Equal(decimal.NewFromInt(150)))
	assert.True(t, rows[0].AvgOrderValue.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 1, rows[1].Orders)
}

func itemRow(name string, quantity int, total string) models.OrderSnapshot {
	return models.OrderSnapshot{
		ItemName:   name,
		Quantity:   quantity,
		TotalPrice: decimal.RequireFromString(total),
	}
}

func TestRankItemSalesOrdersByRevenueDescending(t *testing.T) {
	rows := []models.OrderSnapshot{
		itemRow("Keyboard", 1, "500"),
		itemRow("Tally Course", 2, "3000"),
		itemRow("Keyboard", 3, "1500"),
		itemRow("Mouse", 1, "250"),
	}

	ranked := RankItemSales(rows, 0)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Tally Course", ranked[0].ItemName)
	assert.Equal(t, "Keyboard", ranked[1].ItemName)
	assert.Equal(t, int64(4), ranked[1].TotalQuantity)
	assert.Equal(t, 2, ranked[1].Orders)
	assert.True(t, ranked[1].TotalRevenue.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "Mouse", ranked[2].ItemName)
}

func TestRankItemSalesTopN(t *testing.T) {
	rows := []models.OrderSnapshot{
		itemRow("A", 1, "300"),
		itemRow("B", 1, "200"),
		itemRow("C", 1, "100"),
	}

	ranked := RankItemSales(rows, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].ItemName)
	assert.Equal(t, "B", ranked[1].ItemName)

	// topN 0 means unbounded, for the full export.
	assert.Len(t, RankItemSales(rows, 0), 3)
}

func TestRankItemSalesEmpty(t *testing.T) {
	assert.Empty(t, RankItemSales(nil, defaultItemTopN))
}
