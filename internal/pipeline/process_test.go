package pipeline

import (
	"fmt"
	"testing"
	"time"
)

func TestConversionServiceEndToEnd(t *testing.T) {
	rows := [][]any{
		{"주문 수집 내역"},
		orderHeader(),
	}
	// 10 data rows; product codes P000..P009, three of which are mapped.
	for i := 0; i < 10; i++ {
		rows = append(rows, []any{
			fmt.Sprintf("O-%d", i), "롯데ON", "옵션 텍스트", fmt.Sprintf("P%03d", i), "",
			fmt.Sprintf("E-%d", i), "품목", "10000", "1", "김", "010", "이", "011", "06236", "서울", "",
		})
	}
	rows = append(rows, []any{"오후 3:11"})
	blob := mkXLSX(rows)

	keys := map[string]struct{}{"P001": {}, "P004": {}, "P009": {}}

	svc := NewConversionService(nil)
	result, err := svc.Convert(blob, keys, "test", "orders.xlsx")
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Matched) != 3 {
		t.Fatalf("matched=%d want 3", len(result.Matched))
	}
	if len(result.Converted) != 7 {
		t.Fatalf("converted=%d want 7", len(result.Converted))
	}
	if result.Filtered != 1 {
		t.Fatalf("filtered=%d want 1", result.Filtered)
	}

	today := time.Now().Format("2006-01-02")
	for _, row := range result.Converted {
		if row.OrderDate != today {
			t.Fatalf("order date %q want %q", row.OrderDate, today)
		}
		if row.OrderTime != "09:00:00" {
			t.Fatalf("order time %q want 09:00:00", row.OrderTime)
		}
	}

	// Both workbooks must come back readable.
	passRows := readSheet(t, result.Passthrough)
	if len(passRows) != 1+3 {
		t.Fatalf("passthrough rows=%d want header + 3", len(passRows))
	}
	fulfillRows := readSheet(t, result.Fulfillment)
	if len(fulfillRows) != 1+7 {
		t.Fatalf("fulfillment rows=%d want header + 7", len(fulfillRows))
	}
}

func TestConversionServiceDealRewrite(t *testing.T) {
	blob := mkXLSX([][]any{
		orderHeader(),
		{"O-1", "롯데ON", "옵션", "7000001", "LO1506416845레몬시럽1000ml", "E-1"},
	})

	// The rewritten deal code is mapped, so the row must land in the
	// pass-through partition.
	keys := map[string]struct{}{"LO1506416845_6": {}}

	svc := NewConversionService(nil)
	result, err := svc.Convert(blob, keys, "test", "deal.xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matched) != 1 || len(result.Converted) != 0 {
		t.Fatalf("matched=%d converted=%d want 1/0", len(result.Matched), len(result.Converted))
	}
	if result.Deal.Rewritten != 1 || result.Deal.Fallbacks != 0 {
		t.Fatalf("deal stats=%+v", result.Deal)
	}
}
