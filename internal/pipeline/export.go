package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"lotconv/internal"
)

// Fixed download filenames expected by the back-office workflow.
const (
	PassthroughFilename = "다잇쏘주문건.xlsx"
	FulfillmentFilename = "이플렉스수기주문건.xlsx"
)

// FulfillmentHeaders is the full Eplex template header row, including the
// placeholder columns the template requires but this system never fills.
var FulfillmentHeaders = []string{
	"* F/C",
	"* 주문유형",
	"* 배송처",
	"* 고객ID",
	"판매채널",
	"* 묶음배송번호",
	"* 품목코드",
	"품목명",
	"옵션",
	"가격",
	"* 품목수량",
	"주문자",
	"* 받는사람명",
	"주문자 전화번호",
	"* 받는사람 전화번호",
	"* 받는사람 우편번호",
	"* 받는사람 주소",
	"배송메세지",
	"* 주문일자",
	"상품주문번호",
	"주문번호(참조)",
	"주문중개채널(상세)",
	"박스구분",
	"상세배송유형",
	"새벽배송 SMS 전송",
	"새벽배송 현관비밀번호",
	"위험물 구분",
	"* 주문중개채널",
	"API 연동용 판매자ID",
	"* 주문시간",
	"받는사람 핸드폰",
}

// WriteFulfillmentXLSX serializes transformed rows into the Eplex upload
// workbook, returned as xlsx bytes for download or saving.
func WriteFulfillmentXLSX(rows []internal.FulfillmentRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	writeRow(f, sheet, 1, FulfillmentHeaders)
	for i, row := range rows {
		writeRow(f, sheet, i+2, fulfillmentColumns(row))
	}

	return workbookBytes(f)
}

// WritePassthroughXLSX re-emits matched rows unchanged under the original
// input header row.
func WritePassthroughXLSX(headers []string, rows []internal.OrderRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	writeRow(f, sheet, 1, headers)
	for i, row := range rows {
		cells := row.Raw
		if len(cells) > len(headers) {
			cells = cells[:len(headers)]
		}
		writeRow(f, sheet, i+2, cells)
	}

	return workbookBytes(f)
}

// SaveBlob writes xlsx bytes to disk, creating parent directories.
func SaveBlob(blob []byte, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, blob, 0o644)
}

func fulfillmentColumns(r internal.FulfillmentRow) []string {
	return []string{
		r.FC,
		r.OrderType,
		r.Depot,
		r.CustomerID,
		r.SalesChannel,
		r.BundleShipNo,
		r.ItemCode,
		r.ItemName,
		r.Option,
		r.Price,
		r.ItemQty,
		r.Orderer,
		r.Receiver,
		r.OrdererPhone,
		r.ReceiverPhone,
		r.ReceiverPostal,
		r.ReceiverAddr,
		r.DeliveryMemo,
		r.OrderDate,
		"", // 상품주문번호
		"", // 주문번호(참조)
		"", // 주문중개채널(상세)
		"", // 박스구분
		"", // 상세배송유형
		"", // 새벽배송 SMS 전송
		"", // 새벽배송 현관비밀번호
		"", // 위험물 구분
		eplexBrokerChannel,
		"", // API 연동용 판매자ID
		r.OrderTime,
		"", // 받는사람 핸드폰
	}
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []string) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNumber)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("serialize xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
