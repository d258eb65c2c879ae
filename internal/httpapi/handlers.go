package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

type dayHandler struct {
	svc *daybook.Service
}

func registerDayRoutes(rg *gin.RouterGroup, svc *daybook.Service) {
	h := &dayHandler{svc: svc}

	rg.GET("/denominations", h.listDenominations)

	days := rg.Group("/days/:date")
	{
		days.GET("", h.getDay)
		days.POST("/open", h.openDay)
		days.POST("/close", h.closeDay)
		days.POST("/reopen", h.reopenDay)
		days.GET("/transactions", h.listTransactions)
		days.POST("/transactions", h.addTransaction)
		days.POST("/transactions/:id/reverse", h.reverseTransaction)
		days.GET("/summary", h.summary)
		days.POST("/reconcile", h.reconcile)
	}
}

func (h *dayHandler) listDenominations(c *gin.Context) {
	out := make([]DenominationResponse, len(cashcount.Denominations))
	for i, d := range cashcount.Denominations {
		out[i] = DenominationResponse{Value: d, Tier: cashcount.TierOf(d)}
	}
	c.JSON(http.StatusOK, gin.H{"denominations": out})
}

func (h *dayHandler) getDay(c *gin.Context) {
	day, err := h.svc.Load(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDay(day))
}

func (h *dayHandler) openDay(c *gin.Context) {
	var req CountsRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.svc.Open(c.Request.Context(), c.Param("date"), req.entries())
	if err != nil {
		writeError(c, err)
		return
	}
	loggerFrom(c.Request.Context()).Info("day opened", slog.String("date", status.Date))
	c.JSON(http.StatusOK, toStatus(status))
}

func (h *dayHandler) closeDay(c *gin.Context) {
	var req CountsRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.svc.Close(c.Request.Context(), c.Param("date"), req.entries())
	if err != nil {
		writeError(c, err)
		return
	}
	loggerFrom(c.Request.Context()).Info("day closed", slog.String("date", status.Date))
	c.JSON(http.StatusOK, toStatus(status))
}

func (h *dayHandler) reopenDay(c *gin.Context) {
	status, err := h.svc.Reopen(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatus(status))
}

func (h *dayHandler) listTransactions(c *gin.Context) {
	var only *model.TxnType
	if raw := c.Query("type"); raw != "" {
		t, err := model.ParseTxnType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}
		only = &t
	}
	txns, err := h.svc.ListTransactions(c.Request.Context(), c.Param("date"), only)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": toTransactions(txns)})
}

func (h *dayHandler) addTransaction(c *gin.Context) {
	var req AddTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.svc.AddTransaction(c.Request.Context(), c.Param("date"), req.draft())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransaction(txn))
}

func (h *dayHandler) reverseTransaction(c *gin.Context) {
	var req ReverseRequest
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, bindError(err))
		return
	}
	txn, err := h.svc.Reverse(c.Request.Context(), c.Param("date"), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransaction(txn))
}

func (h *dayHandler) summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *dayHandler) reconcile(c *gin.Context) {
	var req CountsRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.svc.Reconcile(c.Request.Context(), c.Param("date"), req.entries())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, bindError(err))
		return false
	}
	return true
}
