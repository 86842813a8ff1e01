package api

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/service"
	"backoffice/internal/store"
	"backoffice/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const dateParamLayout = "2006-01-02"

// Handler contains HTTP handlers
type Handler struct {
	orderService  *service.OrderService
	reportService *service.ReportService
	backupService *service.BackupService
	adminToken    string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orderService *service.OrderService,
	reportService *service.ReportService,
	backupService *service.BackupService,
	adminToken string,
) *Handler {
	return &Handler{
		orderService:  orderService,
		reportService: reportService,
		backupService: backupService,
		adminToken:    adminToken,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog", h.listCatalog)
		v1.POST("/orders", h.createOrder)
		v1.GET("/orders/:id", h.getOrder)
	}

	admin := v1.Group("/admin")
	admin.Use(h.adminAuth())
	{
		admin.GET("/dashboard", h.getDashboard)

		admin.GET("/orders", h.listOrders)
		admin.PATCH("/orders/:id/payment", h.updatePaymentStatus)
		admin.PATCH("/orders/:id/delivery", h.updateDeliveryStatus)
		admin.PATCH("/orders/:id/remarks", h.updateRemarks)
		admin.DELETE("/orders/:id", h.deleteOrder)

		admin.GET("/customers", h.listCustomers)
		admin.GET("/customers/:id", h.getCustomer)
		admin.PUT("/customers/:id", h.updateCustomer)

		admin.GET("/reports/summary", h.reportSummary)
		admin.GET("/reports/daily", h.reportDaily)
		admin.GET("/reports/items", h.reportItems)

		admin.GET("/exports/orders", h.exportOrders)
		admin.GET("/exports/daily", h.exportDaily)
		admin.GET("/exports/items", h.exportItems)

		admin.POST("/backups", h.createBackup)
		admin.GET("/backups", h.listBackups)
		admin.POST("/backups/restore", h.restoreBackup)
	}
}

// adminAuth gates the back-office surface behind a shared token. An empty
// configured token disables the admin API outright rather than opening it.
func (h *Handler) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.adminToken == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Admin API is not configured",
			})
			return
		}
		token := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid admin token",
			})
			return
		}
		c.Next()
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps domain errors onto HTTP statuses. Transition rejections
// carry the attempted edge so clients can explain the refusal.
func respondError(c *gin.Context, err error) {
	if ite, ok := models.AsInvalidTransition(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Invalid status transition",
			"axis":  ite.Axis,
			"from":  ite.From,
			"to":    ite.To,
		})
		return
	}
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "details": err.Error()})
	case errors.Is(err, models.ErrConstraintViolation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// listCatalog handles the public catalog listing
func (h *Handler) listCatalog(c *gin.Context) {
	kind, ok := models.ParseItemKind(c.DefaultQuery("kind", string(models.ItemKindProduct)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog kind"})
		return
	}
	featuredOnly := c.Query("featured") == "true"

	items, err := h.orderService.ListCatalog(c.Request.Context(), kind, featuredOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// orderFilterFromQuery builds the listing filter. Absent parameters leave
// their predicate out entirely; present ones must parse.
func orderFilterFromQuery(c *gin.Context) (store.OrderFilter, bool) {
	filter := store.OrderFilter{Search: c.Query("q")}

	if raw := c.Query("payment_status"); raw != "" {
		status, ok := models.ParsePaymentStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment_status"})
			return filter, false
		}
		filter.PaymentStatus = &status
	}
	if raw := c.Query("delivery_status"); raw != "" {
		status, ok := models.ParseDeliveryStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery_status"})
			return filter, false
		}
		filter.DeliveryStatus = &status
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return filter, false
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return filter, false
		}
		filter.EndDate = &t
	}

	return filter, true
}

// dateRangeFromQuery parses an inclusive report range, defaulting to the
// trailing 30 days when parameters are absent.
func dateRangeFromQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date"})
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date"})
			return start, end, false
		}
		end = t
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return start, end, false
	}

	return start, end, true
}

// getDashboard handles the admin landing view
func (h *Handler) getDashboard(c *gin.Context) {
	dash, err := h.reportService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// listOrders handles the filtered admin order listing
func (h *Handler) listOrders(c *gin.Context) {
	filter, ok := orderFilterFromQuery(c)
	if !ok {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// updatePaymentStatus handles payment transitions
func (h *Handler) updatePaymentStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	status, ok := models.ParsePaymentStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment status", "status": req.Status})
		return
	}

	event, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), orderID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// updateDeliveryStatus handles delivery transitions
func (h *Handler) updateDeliveryStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	status, ok := models.ParseDeliveryStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown delivery status", "status": req.Status})
		return
	}

	event, err := h.orderService.UpdateDeliveryStatus(c.Request.Context(), orderID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// updateRemarks handles remark edits
func (h *Handler) updateRemarks(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.orderService.UpdateRemarks(c.Request.Context(), orderID, req.Remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "remarks": req.Remarks})
}

// deleteOrder handles permanent order removal
func (h *Handler) deleteOrder(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listCustomers handles the admin customer listing
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.orderService.ListCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

// getCustomer handles customer detail with order history
func (h *Handler) getCustomer(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.orderService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// updateCustomer handles customer contact edits
func (h *Handler) updateCustomer(c *gin.Context) {
	customerID, ok := pathID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	customer.ID = customerID

	if err := h.orderService.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// reportSummary handles the headline summary report
func (h *Handler) reportSummary(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summarize(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// reportDaily handles the paid sales time series
func (h *Handler) reportDaily(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}

	points, err := h.reportService.DailySeries(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_sales": points})
}

// reportItems handles the per-item sales ranking
func (h *Handler) reportItems(c *gin.Context) {
	start, end, ok := dateRangeFromQuery(c)
	if !ok {
		return
	}
	kind, ok := models.ParseItemKind(c.DefaultQuery("kind", string(models.ItemKindProduct)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog kind"})
		return
	}
	topN, err := strconv.Atoi(c.DefaultQuery("top", "10"))
	if err != nil || topN < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top"})
		return
	}

	ranked, err := h.reportService.ByCatalogItem(c.Request.Context(), start, end, kind, topN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": ranked})
}

type backupRequest struct {
	Type string `json:"type"`
}

// createBackup handles on-demand database backups
func (h *Handler) createBackup(c *gin.Context) {
	var req backupRequest
	// An empty body means a plain manual backup.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Type == "" {
		req.Type = "manual"
	}

	entry, err := h.backupService.Create(c.Request.Context(), req.Type)
	if err != nil {
		// The attempt is logged either way; a failed dump is a 500 with
		// the recorded entry attached.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed", "backup": entry})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listBackups handles the backup history listing
func (h *Handler) listBackups(c *gin.Context) {
	entries, err := h.backupService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": entries})
}

// restoreBackup feeds a recorded dump back into the database
func (h *Handler) restoreBackup(c *gin.Context) {
	var req struct {
		FilePath string `json:"file_path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.backupService.Restore(c.Request.Context(), req.FilePath); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": req.FilePath})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
