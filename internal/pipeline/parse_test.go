package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func mkXLSX(rows [][]any) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func orderHeader() []any {
	return []any{"주문번호", "수집처", "주문옵션", "쇼핑몰상품코드", "쇼핑몰품목Key", "품목코드(ERP)", "품목명(ERP)", "주문금액", "수량", "주문자", "주문자연락처", "수취인", "수취인연락처1", "우편번호", "주소", "배송요청사항"}
}

func TestParseOrderXLSX(t *testing.T) {
	blob := mkXLSX([][]any{
		{"주문 수집 내역"}, // metadata row above the header
		orderHeader(),
		{"O-1", "롯데ON", "옵션 A", "123", "LO1506416845바닐라시럽1000ml", "E-1", "시럽", "10000", "1", "김", "010", "이", "011", "06236", "서울", "메모"},
		{"O-2", "쿠팡", "옵션 B", "456", "", "E-2", "원두", "20000", "2", "박", "010", "최", "011", "12345.0", "부산", ""},
		{"오전 10:31 다운로드됨"},
	})

	parsed, err := ParseOrderXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(parsed.Rows))
	}
	if parsed.Filtered != 1 {
		t.Fatalf("filtered=%d want 1 time artifact row", parsed.Filtered)
	}

	first := parsed.Rows[0]
	if first.OrderNo != "O-1" || first.Channel != "롯데ON" || first.MallProductNo != "123" {
		t.Fatalf("row mapping wrong: %+v", first)
	}
	if first.MallItemKey != "LO1506416845바닐라시럽1000ml" {
		t.Fatalf("mall item key not mapped: %q", first.MallItemKey)
	}
	if len(first.Raw) == 0 {
		t.Fatal("raw cells must be retained for pass-through export")
	}
	if len(parsed.Headers) != len(orderHeader()) {
		t.Fatalf("headers=%d want %d", len(parsed.Headers), len(orderHeader()))
	}
}

func TestParseOrderXLSXHeaderOnFirstRow(t *testing.T) {
	blob := mkXLSX([][]any{
		orderHeader(),
		{"O-1", "롯데ON", "옵션", "123", "", "E-1"},
	})
	parsed, err := ParseOrderXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(parsed.Rows))
	}
}

func TestParseOrderXLSXBundleKeyHeaderVariant(t *testing.T) {
	blob := mkXLSX([][]any{
		{"주문번호", "수집처", "주문옵션", "쇼핑몰상품코드", "쇼핑몰품목KEY", "품목코드(ERP)"},
		{"O-1", "롯데ON", "옵션", "123", "LO1506416845레몬시럽1000ml", "E-1"},
	})
	parsed, err := ParseOrderXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Rows[0].MallItemKey != "LO1506416845레몬시럽1000ml" {
		t.Fatalf("uppercase KEY header variant not recognized: %q", parsed.Rows[0].MallItemKey)
	}
}

func TestParseOrderXLSXMissingColumns(t *testing.T) {
	blob := mkXLSX([][]any{
		{"주문번호", "수집처", "주문옵션", "수량"},
		{"O-1", "롯데ON", "옵션", "1"},
	})

	_, err := ParseOrderXLSX(blob)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingColumnsError, got %v", err)
	}
	want := map[string]bool{"쇼핑몰상품코드": true, "품목코드(ERP)": true}
	if len(missing.Columns) != len(want) {
		t.Fatalf("missing=%v", missing.Columns)
	}
	for _, col := range missing.Columns {
		if !want[col] {
			t.Fatalf("unexpected missing column %q", col)
		}
	}
}

func TestParseOrderXLSXEmpty(t *testing.T) {
	blob := mkXLSX([][]any{})
	if _, err := ParseOrderXLSX(blob); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("want ErrEmptyFile, got %v", err)
	}

	headerOnly := mkXLSX([][]any{orderHeader()})
	if _, err := ParseOrderXLSX(headerOnly); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("header-only file: want ErrEmptyFile, got %v", err)
	}
}
