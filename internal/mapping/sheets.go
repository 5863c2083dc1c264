package mapping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"lotconv/internal"
	"lotconv/internal/config"
)

// Sheet column headers of the mapping worksheet.
const (
	headerProductNo   = "상품번호"
	headerProductName = "상품명"
)

// SheetsStore reads and appends the mapping table in a Google Sheets
// worksheet, authenticated with a service account key.
type SheetsStore struct {
	service   *sheets.Service
	sheetID   string
	worksheet string
	timeout   time.Duration
}

func NewSheetsStore(cfg config.Config) (*SheetsStore, error) {
	if err := cfg.Require("GSHEETS_ID", cfg.SheetsID); err != nil {
		return nil, err
	}
	creds, err := cfg.SheetsCredentials()
	if err != nil {
		return nil, err
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(context.Background(), option.WithTokenSource(jwt.TokenSource(context.Background())))
	if err != nil {
		return nil, err
	}

	return &SheetsStore{
		service:   svc,
		sheetID:   cfg.SheetsID,
		worksheet: cfg.SheetsWorksheet,
		timeout:   time.Duration(cfg.SheetsTimeoutSec) * time.Second,
	}, nil
}

func (s *SheetsStore) Fetch(ctx context.Context) ([]internal.MappingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.service.Spreadsheets.Values.Get(s.sheetID, s.valueRange()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch mapping sheet: %w", err)
	}

	out := make([]internal.MappingEntry, 0, len(resp.Values))
	for i, row := range resp.Values {
		no := cellString(row, 0)
		if no == "" {
			continue
		}
		if i == 0 && no == headerProductNo {
			continue
		}
		out = append(out, internal.MappingEntry{
			ProductNo:   no,
			ProductName: cellString(row, 1),
		})
	}
	return out, nil
}

func (s *SheetsStore) Append(ctx context.Context, entry internal.MappingEntry) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values := &sheets.ValueRange{
		Values: [][]interface{}{{strings.TrimSpace(entry.ProductNo), strings.TrimSpace(entry.ProductName)}},
	}
	_, err := s.service.Spreadsheets.Values.Append(s.sheetID, s.valueRange(), values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append mapping entry: %w", err)
	}
	return nil
}

func (s *SheetsStore) valueRange() string {
	return fmt.Sprintf("%s!A:B", s.worksheet)
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}
