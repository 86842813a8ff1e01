package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/redisclient"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	summaryCacheTTL  = time.Minute
	dashboardWindow  = 7  // days of daily sales on the dashboard
	dashboardRecent  = 10 // recent orders on the dashboard
	defaultItemTopN  = 10
	reportDateLayout = "2006-01-02"
)

// ReportService aggregates orders into summaries, series and rankings.
// Every report is a pure computation over a snapshot fetched once from the
// store; nothing is maintained incrementally.
type ReportService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(store *store.Store, cache *redisclient.Client) *ReportService {
	return &ReportService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// Summary holds the headline figures for a date range. TotalSales sums
// total_price across all orders in range regardless of payment status.
type Summary struct {
	TotalOrders    int             `json:"total_orders"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	AvgOrderValue  decimal.Decimal `json:"avg_order_value"`
	PaidOrders     int             `json:"paid_orders"`
	ConversionRate float64         `json:"conversion_rate"`
}

// DailyPoint is one day's paid sales
type DailyPoint struct {
	Date  string          `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// DailyRow is one day's full breakdown for the daily report export
type DailyRow struct {
	Date          string          `json:"date"`
	Orders        int             `json:"orders"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// ItemSales is the per-item ranking row
type ItemSales struct {
	ItemName      string          `json:"item_name"`
	Orders        int             `json:"orders"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// Dashboard is the admin landing view
type Dashboard struct {
	TotalOrders     int                    `json:"total_orders"`
	PendingPayments int                    `json:"pending_payments"`
	DeliveredOrders int                    `json:"delivered_orders"`
	TotalSales      decimal.Decimal        `json:"total_sales"`
	RecentOrders    []models.OrderSnapshot `json:"recent_orders"`
	DailySales      []DailyPoint           `json:"daily_sales"`
}

// SummarizeOrders computes the headline figures over one fetched snapshot.
// Empty input yields zero values, never a division error.
func SummarizeOrders(orders []models.Order) Summary {
	summary := Summary{
		TotalSales:    decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}

	for _, o := range orders {
		summary.TotalOrders++
		summary.TotalSales = summary.TotalSales.Add(o.TotalPrice)
		if o.PaymentStatus == models.PaymentPaid {
			summary.PaidOrders++
		}
	}

	if summary.TotalOrders > 0 {
		count := decimal.NewFromInt(int64(summary.TotalOrders))
		summary.AvgOrderValue = summary.TotalSales.Div(count).Round(2)
		summary.ConversionRate = float64(summary.PaidOrders) / float64(summary.TotalOrders) * 100
	}

	return summary
}

// DailyPaidSales groups paid orders by calendar date, ascending. Days with
// no paid orders are absent, not zero-filled.
func DailyPaidSales(orders []models.Order) []DailyPoint {
	byDate := map[string]decimal.Decimal{}
	for _, o := range orders {
		if o.PaymentStatus != models.PaymentPaid {
			continue
		}
		date := o.OrderDate.Format(reportDateLayout)
		byDate[date] = byDate[date].Add(o.TotalPrice)
	}

	points := make([]DailyPoint, 0, len(byDate))
	for date, sales := range byDate {
		points = append(points, DailyPoint{Date: date, Sales: sales})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// DailyBreakdown groups all orders by calendar date with count, revenue and
// average order value per day, ascending.
func DailyBreakdown(orders []models.Order) []DailyRow {
	type acc struct {
		orders  int
		revenue decimal.Decimal
	}
	byDate := map[string]*acc{}
	for _, o := range orders {
		date := o.OrderDate.Format(reportDateLayout)
		a := byDate[date]
		if a == nil {
			a = &acc{revenue: decimal.Zero}
			byDate[date] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(o.TotalPrice)
	}

	rows := make([]DailyRow, 0, len(byDate))
	for date, a := range byDate {
		rows = append(rows, DailyRow{
			Date:          date,
			Orders:        a.orders,
			Revenue:       a.revenue,
			AvgOrderValue: a.revenue.Div(decimal.NewFromInt(int64(a.orders))).Round(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

// RankItemSales groups snapshots by item name with quantity and revenue
// totals, descending by revenue. topN caps the result; 0 means unbounded.
func RankItemSales(rows []models.OrderSnapshot, topN int) []ItemSales {
	type acc struct {
		orders   int
		quantity int64
		revenue  decimal.Decimal
	}
	byItem := map[string]*acc{}
	order := []string{}
	for _, r := range rows {
		a := byItem[r.ItemName]
		if a == nil {
			a = &acc{revenue: decimal.Zero}
			byItem[r.ItemName] = a
			order = append(order, r.ItemName)
		}
		a.orders++
		a.quantity += int64(r.Quantity)
		a.revenue = a.revenue.Add(r.TotalPrice)
	}

	ranked := make([]ItemSales, 0, len(order))
	for _, name := range order {
		a := byItem[name]
		ranked = append(ranked, ItemSales{
			ItemName:      name,
			Orders:        a.orders,
			TotalQuantity: a.quantity,
			TotalRevenue:  a.revenue,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// Summarize computes the headline summary for an inclusive date range,
// read-through cached. Cache failures degrade to recomputation.
func (rs *ReportService) Summarize(ctx context.Context, start, end time.Time) (*Summary, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.Summarize")
	defer span.End()

	util.ReportRequestsTotal.WithLabelValues("summary").Inc()

	cacheKey := fmt.Sprintf("report:summary:%s:%s",
		start.Format(reportDateLayout), end.Format(reportDateLayout))

	if rs.cache != nil {
		var cached Summary
		hit, err := rs.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			rs.logger.Warn("Report cache read failed", zap.Error(err))
		} else if hit {
			util.ReportCacheHitsTotal.Inc()
			return &cached, nil
		}
		util.ReportCacheMissesTotal.Inc()
	}

	orders, err := rs.store.ListOrdersBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	summary := SummarizeOrders(orders)

	if rs.cache != nil {
		if err := rs.cache.SetJSON(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
			rs.logger.Warn("Report cache write failed", zap.Error(err))
		}
	}

	return &summary, nil
}

// DailySeries computes paid sales per day over an inclusive date range
func (rs *ReportService) DailySeries(ctx context.Context, start, end time.Time) ([]DailyPoint, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.DailySeries")
	defer span.End()

	util.ReportRequestsTotal.WithLabelValues("daily").Inc()

	orders, err := rs.store.ListOrdersBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	return DailyPaidSales(orders), nil
}

// DailyReport computes the full per-day breakdown used by the daily export
func (rs *ReportService) DailyReport(ctx context.Context, start, end time.Time) ([]DailyRow, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.DailyReport")
	defer span.End()

	util.ReportRequestsTotal.WithLabelValues("daily_breakdown").Inc()

	orders, err := rs.store.ListOrdersBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	return DailyBreakdown(orders), nil
}

// ByCatalogItem ranks items of one kind by revenue over an inclusive date
// range. topN 0 means unbounded (full export).
func (rs *ReportService) ByCatalogItem(ctx context.Context, start, end time.Time, kind models.ItemKind, topN int) ([]ItemSales, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.ByCatalogItem")
	defer span.End()

	util.ReportRequestsTotal.WithLabelValues("by_item").Inc()

	rows, err := rs.store.ListOrderSnapshots(ctx, store.OrderFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("by catalog item: %w", err)
	}

	filtered := rows[:0]
	for _, r := range rows {
		if r.ItemKind == kind {
			filtered = append(filtered, r)
		}
	}
	return RankItemSales(filtered, topN), nil
}

// OrdersForExport retrieves snapshots for the order export, oldest filters
// applied the same way as the admin listing.
func (rs *ReportService) OrdersForExport(ctx context.Context, filter store.OrderFilter) ([]models.OrderSnapshot, error) {
	return rs.store.ListOrderSnapshots(ctx, filter)
}

// GetDashboard assembles the admin landing view
func (rs *ReportService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	ctx, span := util.StartSpan(ctx, "ReportService.GetDashboard")
	defer span.End()

	util.ReportRequestsTotal.WithLabelValues("dashboard").Inc()

	now := time.Now()
	start := now.AddDate(0, 0, -dashboardWindow)

	orders, err := rs.store.ListOrdersBetween(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard orders: %w", err)
	}

	recent, err := rs.store.ListRecentOrderSnapshots(ctx, dashboardRecent)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent: %w", err)
	}

	dash := &Dashboard{
		TotalSales:   decimal.Zero,
		RecentOrders: recent,
		DailySales:   DailyPaidSales(orders),
	}
	for _, o := range orders {
		dash.TotalOrders++
		if o.PaymentStatus == models.PaymentPending {
			dash.PendingPayments++
		}
		if o.DeliveryStatus == models.DeliveryDelivered {
			dash.DeliveredOrders++
		}
		if o.PaymentStatus == models.PaymentPaid {
			dash.TotalSales = dash.TotalSales.Add(o.TotalPrice)
		}
	}

	return dash, nil
}
