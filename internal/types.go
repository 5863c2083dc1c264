package internal

// OrderRow is one order line from the Ecount ERP export, after header mapping.
// Every field is free-form text and may be empty.
type OrderRow struct {
	OrderNo        string // 주문번호
	Channel        string // 수집처
	Option         string // 주문옵션
	MallProductNo  string // 쇼핑몰상품코드
	MallItemKey    string // 쇼핑몰품목Key
	ItemCode       string // 품목코드(ERP)
	ItemName       string // 품목명(ERP)
	Amount         string // 주문금액
	Qty            string // 수량
	Orderer        string // 주문자
	OrdererPhone   string // 주문자연락처
	Receiver       string // 수취인
	ReceiverPhone  string // 수취인연락처1
	PostalCode     string // 우편번호
	Address        string // 주소
	DeliveryMemo   string // 배송요청사항
	Raw            []string
	SourceRowIndex int
}

// FulfillmentRow is one line of the Eplex manual-order upload template.
// Placeholder columns required by the template are emitted at export time, not stored.
type FulfillmentRow struct {
	FC             string // * F/C, fixed "NS001"
	OrderType      string // * 주문유형, fixed "7"
	Depot          string // * 배송처, fixed "17"
	CustomerID     string // * 고객ID, fixed "90015746"
	SalesChannel   string // 판매채널
	BundleShipNo   string // * 묶음배송번호
	ItemCode       string // * 품목코드
	ItemName       string // 품목명
	Option         string // 옵션
	Price          string // 가격
	ItemQty        string // * 품목수량
	Orderer        string // 주문자
	Receiver       string // * 받는사람명
	OrdererPhone   string // 주문자 전화번호
	ReceiverPhone  string // * 받는사람 전화번호
	ReceiverPostal string // * 받는사람 우편번호
	ReceiverAddr   string // * 받는사람 주소
	DeliveryMemo   string // 배송메세지
	OrderDate      string // * 주문일자, processing date
	OrderTime      string // * 주문시간, fixed "09:00:00"
}

// MappingEntry is one row of the remote product-number mapping sheet.
type MappingEntry struct {
	ProductNo   string
	ProductName string
}

type MailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// ConversionRun is the persisted record of one convert invocation.
type ConversionRun struct {
	ID        int
	Source    string
	InputName string
	Matched   int
	Converted int
	Filtered  int
	CreatedAt string
}
