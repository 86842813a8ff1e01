package api

import (
	"net/http"
	"time"

	"backoffice/internal/export"
	"backoffice/internal/models"
	"backoffice/internal/service"

	"github.com/gin-gonic/gin"
)

// orderColumns mirrors the admin order listing. The column set and order are
// load-bearing: downstream accounting imports match on headers.
var orderColumns = []export.Column[models.OrderSnapshot]{
	{Header: "Order ID", Value: func(s models.OrderSnapshot) any { return s.OrderID }},
	{Header: "Order Date", Value: func(s models.OrderSnapshot) any { return s.OrderDate }},
	{Header: "Customer Name", Value: func(s models.OrderSnapshot) any { return s.CustomerName }},
	{Header: "Phone", Value: func(s models.OrderSnapshot) any { return s.CustomerPhone }},
	{Header: "Email", Value: func(s models.OrderSnapshot) any {
		if s.CustomerEmail == "" {
			return nil
		}
		return s.CustomerEmail
	}},
	{Header: "Item Name", Value: func(s models.OrderSnapshot) any { return s.ItemName }},
	{Header: "Quantity", Value: func(s models.OrderSnapshot) any { return s.Quantity }},
	{Header: "Total Price", Value: func(s models.OrderSnapshot) any { return s.TotalPrice }},
	{Header: "Payment Status", Value: func(s models.OrderSnapshot) any { return s.PaymentStatus }},
	{Header: "Delivery Status", Value: func(s models.OrderSnapshot) any { return s.DeliveryStatus }},
}

var dailyColumns = []export.Column[service.DailyRow]{
	{Header: "Date", Value: func(r service.DailyRow) any { return r.Date }},
	{Header: "Orders", Value: func(r service.DailyRow) any { return r.Orders }},
	{Header: "Revenue", Value: func(r service.DailyRow) any { return r.Revenue }},
	{Header: "Avg Order Value", Value: func(r service.DailyRow) any { return r.AvgOrderValue }},
}

var itemColumns = []export.Column[service.ItemSales]{
	{Header: "Item Name", Value: func(r service.ItemSales) any { return r.ItemName }},
	{Header: "Orders", Value: func(r service.ItemSales) any { return r.Orders }},
	{Header: "Quantity Sold", Value: func(r service.ItemSales) any { return r.TotalQuantity }},
	{Header: "Revenue", Value: func(r service.ItemSales) any { return r.TotalRevenue }},
}

func sendWorkbook(c *gin.Context, prefix string, data []byte) {
	filename := export.Filename(prefix, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

// exportOrders streams the filtered order listing as a spreadsheet
func (h *Handler) exportOrders(c *gin.Context) {
	filter, ok := orderFilterFromQuery(c)
	if !ok {
		return
	}

	rows, err := h.reportService.OrdersForExport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := export.Table("Orders", rows, orderColumns)
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "orders", data)
}

// exportDaily streams the per-day breakdown as a spreadsheet
func (h *Handler) exportDaily(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}

	rows, err := h.reportService.DailyReport(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := export.Table("Daily Sales", rows, dailyColumns)
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, "daily_report", data)
}

// exportItems streams the full item ranking of one catalog kind. Unlike the
// JSON report this is never truncated.
func (h *Handler) exportItems(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}
	kind, ok := models.ParseItemKind(c.DefaultQuery("kind", string(models.ItemKindProduct)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog kind"})
		return
	}

	rows, err := h.reportService.ByCatalogItem(c.Request.Context(), start, end, kind, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := export.Table("Item Sales", rows, itemColumns)
	if err != nil {
		respondError(c, err)
		return
	}
	sendWorkbook(c, string(kind)+"_report", data)
}
