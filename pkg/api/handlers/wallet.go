package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/wallet"
)

// WalletHandler handles wallet balance, ledger and statement exports
type WalletHandler struct {
	service *wallet.Service
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(service *wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

// Summary returns the wallet balance with recent transactions
func (h *WalletHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Transactions lists wallet ledger entries
func (h *WalletHandler) Transactions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	page, err := h.service.Transactions(ctx, flipcash.TransactionFilters{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// statementRequest binds the statement export payload
type statementRequest struct {
	Format   string `json:"format"`
	Type     string `json:"type,omitempty"`
	Category string `json:"category,omitempty"`
}

// ExportStatement generates a CSV/Excel statement file
func (h *WalletHandler) ExportStatement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	var req statementRequest
	if err := c.Bind(&req); err != nil {
		return apierrors.BadRequest(c, "Invalid request body")
	}
	if req.Format == "" {
		req.Format = wallet.FormatCSV
	}

	export, err := h.service.ExportStatement(ctx, req.Format, flipcash.TransactionFilters{
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		return apierrors.Upstream(c, err)
	}
	return c.JSON(http.StatusCreated, export)
}

// DownloadStatement serves a previously generated statement file
func (h *WalletHandler) DownloadStatement(c echo.Context) error {
	path, err := h.service.StatementPath(c.Param("file_id"))
	if err != nil {
		return apierrors.NotFound(c, "Statement file not found or expired")
	}
	return c.Attachment(path, "statement"+filepath.Ext(path))
}
