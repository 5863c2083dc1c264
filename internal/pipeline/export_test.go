package pipeline

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"lotconv/internal"
)

func readSheet(t *testing.T, blob []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteFulfillmentXLSX(t *testing.T) {
	in := []internal.OrderRow{{
		OrderNo:    "O-1",
		Channel:    "쿠팡",
		ItemCode:   "E-1",
		ItemName:   "원두 1kg",
		Qty:        "3",
		PostalCode: "4 5",
	}}
	converted := Transform(in, time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local))

	blob, err := WriteFulfillmentXLSX(converted)
	if err != nil {
		t.Fatal(err)
	}

	rows := readSheet(t, blob)
	if len(rows) != 2 {
		t.Fatalf("rows=%d want header + 1", len(rows))
	}
	if len(rows[0]) != len(FulfillmentHeaders) {
		t.Fatalf("header cells=%d want %d", len(rows[0]), len(FulfillmentHeaders))
	}
	for i, h := range FulfillmentHeaders {
		if rows[0][i] != h {
			t.Fatalf("header[%d]=%q want %q", i, rows[0][i], h)
		}
	}

	data := rows[1]
	if data[0] != "NS001" || data[1] != "7" || data[2] != "17" || data[3] != "90015746" {
		t.Fatalf("fixed columns wrong: %v", data[:4])
	}
	if data[15] != "00045" {
		t.Fatalf("postal column=%q want 00045", data[15])
	}
	if data[27] != "SELF" {
		t.Fatalf("broker channel column=%q want SELF", data[27])
	}
	if data[29] != "09:00:00" {
		t.Fatalf("order time column=%q want 09:00:00", data[29])
	}
}

func TestWritePassthroughXLSXRoundTrip(t *testing.T) {
	headers := []string{"주문번호", "수집처", "주문옵션", "쇼핑몰상품코드", "품목코드(ERP)"}
	matched := []internal.OrderRow{
		{Raw: []string{"O-1", "롯데ON", "옵션", "123", "E-1"}},
		{Raw: []string{"O-2", "롯데ON", "옵션", "456", "E-2"}},
	}

	blob, err := WritePassthroughXLSX(headers, matched)
	if err != nil {
		t.Fatal(err)
	}

	rows := readSheet(t, blob)
	if len(rows) != 3 {
		t.Fatalf("rows=%d want header + 2", len(rows))
	}
	if rows[1][0] != "O-1" || rows[2][3] != "456" {
		t.Fatalf("pass-through rows altered: %v", rows[1:])
	}

	// The emitted file must itself be parseable as an order export again.
	parsed, err := ParseOrderXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.Rows) != 2 {
		t.Fatalf("re-parse rows=%d want 2", len(parsed.Rows))
	}
}
