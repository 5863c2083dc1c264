package pipeline

import (
	"strings"
	"time"

	"lotconv/internal"
	"lotconv/internal/util"
)

// Fixed values required by the Eplex manual-order template.
const (
	eplexFC              = "NS001"
	eplexOrderType       = "7"
	eplexDepot           = "17"
	eplexCustomerID      = "90015746"
	eplexBrokerChannel   = "SELF"
	eplexOrderTime       = "09:00:00"
	eplexOrderDateLayout = "2006-01-02"
)

// Transform reshapes unmatched order rows into Eplex upload rows, 1:1 and
// order-preserving. Field text is copied verbatim; only the option loses its
// whitespace and the postal code is normalized. The order date is the
// processing date, never sourced from the input.
func Transform(rows []internal.OrderRow, now time.Time) []internal.FulfillmentRow {
	orderDate := now.Format(eplexOrderDateLayout)
	out := make([]internal.FulfillmentRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, transformRow(row, orderDate))
	}
	return out
}

func transformRow(row internal.OrderRow, orderDate string) internal.FulfillmentRow {
	code := row.ItemCode
	if strings.TrimSpace(row.Channel) == MarketplaceChannel && row.MallProductNo != "" {
		// Deal preprocessing already rewrote the mall code where applicable.
		code = row.MallProductNo
	}

	return internal.FulfillmentRow{
		FC:             eplexFC,
		OrderType:      eplexOrderType,
		Depot:          eplexDepot,
		CustomerID:     eplexCustomerID,
		SalesChannel:   row.Channel,
		BundleShipNo:   row.OrderNo,
		ItemCode:       code,
		ItemName:       row.ItemName,
		Option:         util.StripAllSpace(row.Option),
		Price:          row.Amount,
		ItemQty:        row.Qty,
		Orderer:        row.Orderer,
		Receiver:       row.Receiver,
		OrdererPhone:   row.OrdererPhone,
		ReceiverPhone:  row.ReceiverPhone,
		ReceiverPostal: NormalizePostalCode(row.PostalCode),
		ReceiverAddr:   row.Address,
		DeliveryMemo:   row.DeliveryMemo,
		OrderDate:      orderDate,
		OrderTime:      eplexOrderTime,
	}
}
