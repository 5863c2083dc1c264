package pipeline

import (
	"fmt"
	"strings"

	"lotconv/internal"
	"lotconv/internal/util"
)

const (
	// MarketplaceChannel is the 수집처 value that triggers mall-code resolution.
	MarketplaceChannel = "롯데ON"

	// dealKeyPrefix marks a 쇼핑몰품목Key as part of the syrup bundle deal.
	dealKeyPrefix = "LO1506416845"
)

// dealFlavorNames lists the bundle deal variants in listing order. The
// composite item code of entry n is "<prefix>_<n+1>"; the first entry doubles
// as the fallback for unrecognized flavors.
var dealFlavorNames = []string{
	"바닐라시럽1000ml",
	"카라멜시럽1000ml",
	"헤이즐넛시럽1000ml",
	"그린민트시럽1000ml",
	"블루큐라소시럽1000ml",
	"레몬시럽1000ml",
	"모히또시럽1000ml",
	"초콜릿시럽1000ml",
	"아이스티피치시럽1000ml",
	"스트로베리시럽1000ml",
	"오렌지시럽1000ml",
	"키위시럽1000ml",
	"자몽시럽1000ml",
	"핑크자몽시럽1000ml",
	"패션프릇시럽1000ml",
	"망고시럽1000ml",
	"라임시럽1000ml",
	"로즈시럽1000ml",
	"애플시럽1000ml",
	"바나나시럽1000ml",
	"블루베리시럽1000ml",
	"체리시럽1000ml",
	"케인슈가시럽1000ml",
	"피치시럽1000ml",
	"차이티시럽1000ml",
	"솔티드카라멜시럽1000ml",
	"시나몬시럽1000ml",
	"라벤더시럽1000ml",
	"화이트초코시럽1000ml",
	"석류시럽1000ml",
	"라즈베리시럽1000ml",
	"파인애플시럽1000ml",
	"아이리쉬크림시럽1000ml",
	"그린애플시럽1000ml",
	"돌체드레체시럽1000ml",
	"엘더플라워시럽1000ml",
	"1883시럽펌프",
	"리치시럽1000ml",
	"화이트피치시럽1000ml",
	"아몬드시럽1000ml",
	"마카다미아넛시럽1000ml",
}

var dealCodes = buildDealCodes()

var dealFallbackCode = dealKeyPrefix + "_1"

func buildDealCodes() map[string]string {
	m := make(map[string]string, len(dealFlavorNames))
	for i, name := range dealFlavorNames {
		m[name] = fmt.Sprintf("%s_%d", dealKeyPrefix, i+1)
	}
	return m
}

// ResolveDealCode maps a 쇼핑몰품목Key onto its composite deal code. ok is
// false when the key does not belong to the deal or carries no flavor name.
// fallback reports that the flavor was unrecognized and the first table entry
// was substituted; callers should surface that, the substitution silently
// miscodes unknown flavors otherwise.
func ResolveDealCode(mallItemKey string) (code string, fallback bool, ok bool) {
	key := strings.TrimSpace(mallItemKey)
	if !strings.HasPrefix(key, dealKeyPrefix) {
		return "", false, false
	}

	flavor := util.StripAllSpace(strings.TrimPrefix(key, dealKeyPrefix))
	if flavor == "" {
		return "", false, false
	}

	if code, known := dealCodes[flavor]; known {
		return code, false, true
	}
	return dealFallbackCode, true, true
}

// DealStats summarizes the in-place mall-code rewrite of one batch.
type DealStats struct {
	Rewritten int
	Fallbacks int
}

// ApplyDealCodes rewrites the mall product code of marketplace rows whose
// 쇼핑몰품목Key resolves to a deal code. Classification and transformation
// both read the rewritten code afterwards.
func ApplyDealCodes(rows []internal.OrderRow) DealStats {
	var stats DealStats
	for i := range rows {
		if strings.TrimSpace(rows[i].Channel) != MarketplaceChannel {
			continue
		}
		code, fallback, ok := ResolveDealCode(rows[i].MallItemKey)
		if !ok {
			continue
		}
		rows[i].MallProductNo = code
		stats.Rewritten++
		if fallback {
			stats.Fallbacks++
		}
	}
	return stats
}
