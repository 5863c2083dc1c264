package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"lotconv/internal"
	"lotconv/internal/util"
)

// Input column names of the Ecount order export. Lookups are exact except for
// the 쇼핑몰품목Key column, whose exact label varies between export versions.
const (
	colOrderNo       = "주문번호"
	colChannel       = "수집처"
	colOption        = "주문옵션"
	colMallProductNo = "쇼핑몰상품코드"
	colItemCode      = "품목코드(ERP)"
	colItemName      = "품목명(ERP)"
	colAmount        = "주문금액"
	colQty           = "수량"
	colOrderer       = "주문자"
	colOrdererPhone  = "주문자연락처"
	colReceiver      = "수취인"
	colReceiverPhone = "수취인연락처1"
	colPostalCode    = "우편번호"
	colAddress       = "주소"
	colDeliveryMemo  = "배송요청사항"
)

var requiredColumns = []string{colMallProductNo, colChannel, colOption, colItemCode}

// timeRowMarkers flag the trailing summary row the export appends; its first
// cell holds a localized timestamp like "오전 10:31".
var timeRowMarkers = []string{"오전", "오후"}

// headerProbeRows bounds the search for the header row; exports carry one or
// two metadata rows above it.
const headerProbeRows = 3

var ErrEmptyFile = errors.New("uploaded file contains no data rows")

// MissingColumnsError reports which required export columns are absent, so
// the caller can show the full list at once.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// ParsedOrders is the decoded upload: mapped rows plus the original header
// row, kept for re-emitting the pass-through subset unchanged.
type ParsedOrders struct {
	Headers  []string
	Rows     []internal.OrderRow
	Filtered int
}

// ParseOrderXLSX decodes the first sheet of an Ecount order export.
func ParseOrderXLSX(blob []byte) (*ParsedOrders, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	headerIdx, headers := findHeaderRow(rows)
	if headerIdx < 0 {
		if isAllBlank(rows) {
			return nil, ErrEmptyFile
		}
		return nil, &MissingColumnsError{Columns: requiredColumns}
	}

	index := buildColumnIndex(headers)
	if missing := missingRequired(index); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	out := &ParsedOrders{Headers: headers}
	for i := headerIdx + 1; i < len(rows); i++ {
		cells := rows[i]
		if isBlankRow(cells) {
			continue
		}
		if isTimeArtifactRow(cells) {
			out.Filtered++
			continue
		}
		out.Rows = append(out.Rows, rowFromCells(cells, index, i+1))
	}

	if len(out.Rows) == 0 && out.Filtered == 0 {
		return nil, ErrEmptyFile
	}
	return out, nil
}

// columnIndex maps OrderRow fields to cell positions; -1 means absent.
type columnIndex struct {
	byName      map[string]int
	mallItemKey int
}

func findHeaderRow(rows [][]string) (int, []string) {
	limit := headerProbeRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		cells := normalizeCells(rows[i])
		hits := 0
		for _, name := range requiredColumns {
			if indexOf(cells, name) >= 0 {
				hits++
			}
		}
		if hits >= 2 {
			return i, cells
		}
	}
	return -1, nil
}

func buildColumnIndex(headers []string) columnIndex {
	idx := columnIndex{byName: make(map[string]int, len(headers)), mallItemKey: -1}
	for i, h := range headers {
		if _, seen := idx.byName[h]; !seen {
			idx.byName[h] = i
		}
		// The bundle key header drifts between "쇼핑몰품목Key" and
		// "쇼핑몰품목KEY" across export versions.
		if idx.mallItemKey < 0 && strings.Contains(h, "쇼핑몰품목") && strings.Contains(strings.ToLower(h), "key") {
			idx.mallItemKey = i
		}
	}
	return idx
}

func missingRequired(idx columnIndex) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func rowFromCells(cells []string, idx columnIndex, rowNumber int) internal.OrderRow {
	get := func(name string) string {
		pos, ok := idx.byName[name]
		if !ok || pos >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[pos])
	}

	row := internal.OrderRow{
		OrderNo:        get(colOrderNo),
		Channel:        get(colChannel),
		Option:         get(colOption),
		MallProductNo:  get(colMallProductNo),
		ItemCode:       get(colItemCode),
		ItemName:       get(colItemName),
		Amount:         get(colAmount),
		Qty:            get(colQty),
		Orderer:        get(colOrderer),
		OrdererPhone:   get(colOrdererPhone),
		Receiver:       get(colReceiver),
		ReceiverPhone:  get(colReceiverPhone),
		PostalCode:     get(colPostalCode),
		Address:        get(colAddress),
		DeliveryMemo:   get(colDeliveryMemo),
		Raw:            append([]string(nil), cells...),
		SourceRowIndex: rowNumber,
	}
	if idx.mallItemKey >= 0 && idx.mallItemKey < len(cells) {
		row.MallItemKey = strings.TrimSpace(cells[idx.mallItemKey])
	}
	return row
}

func isTimeArtifactRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	first := cells[0]
	for _, marker := range timeRowMarkers {
		if strings.Contains(first, marker) {
			return true
		}
	}
	return false
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isAllBlank(rows [][]string) bool {
	for _, r := range rows {
		if !isBlankRow(r) {
			return false
		}
	}
	return true
}

func indexOf(cells []string, value string) int {
	for i, c := range cells {
		if c == value {
			return i
		}
	}
	return -1
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, util.NormalizeSpaces(c))
	}
	return out
}
