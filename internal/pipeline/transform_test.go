package pipeline

import (
	"testing"
	"time"

	"lotconv/internal"
)

func TestTransformRow(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.Local)
	rows := []internal.OrderRow{{
		OrderNo:       "20260828-0001",
		Channel:       "롯데ON",
		Option:        "바닐라 시럽 1000ml",
		MallProductNo: "LO1506416845_1",
		ItemCode:      "ERP-001",
		ItemName:      "1883 바닐라시럽",
		Amount:        "12900",
		Qty:           "2",
		Orderer:       "김주문",
		OrdererPhone:  "010-1111-2222",
		Receiver:      "이수취",
		ReceiverPhone: "010-3333-4444",
		PostalCode:    "623.0",
		Address:       "서울시 강남구",
		DeliveryMemo:  "부재시 문앞",
	}}

	out := Transform(rows, now)
	if len(out) != 1 {
		t.Fatalf("len=%d want 1", len(out))
	}

	got := out[0]
	if got.FC != "NS001" || got.OrderType != "7" || got.Depot != "17" || got.CustomerID != "90015746" {
		t.Fatalf("fixed fields wrong: %+v", got)
	}
	if got.ItemCode != "LO1506416845_1" {
		t.Fatalf("marketplace row must use the mall code, got %q", got.ItemCode)
	}
	if got.Option != "바닐라시럽1000ml" {
		t.Fatalf("option whitespace not stripped: %q", got.Option)
	}
	if got.ReceiverPostal != "00623" {
		t.Fatalf("postal not normalized: %q", got.ReceiverPostal)
	}
	if got.OrderDate != "2026-08-28" {
		t.Fatalf("order date %q want processing date", got.OrderDate)
	}
	if got.OrderTime != "09:00:00" {
		t.Fatalf("order time %q want fixed 09:00:00", got.OrderTime)
	}
	if got.BundleShipNo != "20260828-0001" || got.Receiver != "이수취" {
		t.Fatalf("identity fields wrong: %+v", got)
	}
}

func TestTransformItemCodePrecedence(t *testing.T) {
	now := time.Now()

	// Non-marketplace channels always keep the ERP code.
	out := Transform([]internal.OrderRow{{Channel: "쿠팡", MallProductNo: "COUPANG-1", ItemCode: "ERP-9"}}, now)
	if out[0].ItemCode != "ERP-9" {
		t.Fatalf("non-marketplace row got %q want ERP code", out[0].ItemCode)
	}

	// Marketplace rows without a mall code fall back to the ERP code too.
	out = Transform([]internal.OrderRow{{Channel: "롯데ON", MallProductNo: "", ItemCode: "ERP-9"}}, now)
	if out[0].ItemCode != "ERP-9" {
		t.Fatalf("marketplace row without mall code got %q want ERP code", out[0].ItemCode)
	}
}

func TestTransformLengthPreserving(t *testing.T) {
	rows := make([]internal.OrderRow, 37)
	out := Transform(rows, time.Now())
	if len(out) != len(rows) {
		t.Fatalf("len=%d want %d", len(out), len(rows))
	}
	// Empty input rows still produce safe defaults.
	if out[0].ReceiverPostal != "00000" {
		t.Fatalf("empty postal must normalize to 00000, got %q", out[0].ReceiverPostal)
	}
}
