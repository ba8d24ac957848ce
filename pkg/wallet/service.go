package wallet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/flipcash/partner-portal/pkg/flipcash"
	"github.com/flipcash/partner-portal/pkg/models"
)

// Statement export formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

var statementHeader = []string{"Date", "Type", "Category", "Amount", "Description", "Reference"}

// Service provides read-only wallet views and statement exports. Balances
// are never mutated here; every change is a side effect of backend-confirmed
// gateway webhooks.
type Service struct {
	api         *flipcash.Client
	storagePath string

	// amounts are grouped per Indian convention (1,00,000)
	printer *message.Printer
}

// NewService creates a wallet service writing exports under storagePath
func NewService(api *flipcash.Client, storagePath string) *Service {
	os.MkdirAll(storagePath, 0755)

	return &Service{
		api:         api,
		storagePath: storagePath,
		printer:     message.NewPrinter(language.MustParse("en-IN")),
	}
}

// Summary fetches the wallet balance with its most recent ledger entries
func (s *Service) Summary(ctx context.Context) (*models.WalletSummaryResponse, error) {
	wallet, err := s.api.GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.api.ListTransactions(ctx, flipcash.TransactionFilters{PageSize: 10})
	if err != nil {
		return nil, err
	}

	return &models.WalletSummaryResponse{
		Wallet:             *wallet,
		RecentTransactions: page.Results,
	}, nil
}

// Transactions lists wallet ledger entries
func (s *Service) Transactions(ctx context.Context, filters flipcash.TransactionFilters) (flipcash.Page[flipcash.Transaction], error) {
	return s.api.ListTransactions(ctx, filters)
}

// ExportStatement writes the full transaction ledger to a CSV or Excel file
// under the storage path and returns its download descriptor. Files are
// named by uuid and purged by the maintenance cron after the retention
// window.
func (s *Service) ExportStatement(ctx context.Context, format string, filters flipcash.TransactionFilters) (*models.StatementExportResponse, error) {
	if format != FormatCSV && format != FormatExcel {
		return nil, fmt.Errorf("invalid format: must be csv or excel")
	}

	page, err := s.api.ListTransactions(ctx, filters)
	if err != nil {
		return nil, err
	}

	fileID := uuid.NewString()
	var fileName string
	if format == FormatCSV {
		fileName = fileID + ".csv"
		err = s.writeCSV(filepath.Join(s.storagePath, fileName), page.Results)
	} else {
		fileName = fileID + ".xlsx"
		err = s.writeExcel(filepath.Join(s.storagePath, fileName), page.Results)
	}
	if err != nil {
		return nil, err
	}

	return &models.StatementExportResponse{
		FileID:    fileID,
		FileName:  fileName,
		Format:    format,
		Rows:      len(page.Results),
		CreatedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// StatementPath resolves a previously exported file by id, refusing ids
// that escape the storage directory
func (s *Service) StatementPath(fileID string) (string, error) {
	if fileID == "" || strings.ContainsAny(fileID, "/\\.") {
		return "", fmt.Errorf("invalid file id")
	}

	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(s.storagePath, fileID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("statement file not found")
}

// PurgeExpired removes statement files older than the retention window and
// returns how many were deleted
func (s *Service) PurgeExpired(retention time.Duration) (int, error) {
	entries, err := os.ReadDir(s.storagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read export directory: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.storagePath, entry.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

func (s *Service) writeCSV(path string, transactions []flipcash.Transaction) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create statement file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(statementHeader); err != nil {
		return fmt.Errorf("failed to write statement header: %w", err)
	}

	for _, txn := range transactions {
		record := []string{
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
			txn.Type,
			txn.Category,
			s.formatAmount(txn.Amount),
			txn.Description,
			txn.ReferenceID,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	return nil
}

func (s *Service) writeExcel(path string, transactions []flipcash.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Statement"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range statementHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, txn := range transactions {
		values := []any{
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
			txn.Type,
			txn.Category,
			s.formatAmount(txn.Amount),
			txn.Description,
			txn.ReferenceID,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save statement file: %w", err)
	}
	return nil
}

func (s *Service) formatAmount(amount float64) string {
	return s.printer.Sprintf("%.2f", amount)
}
