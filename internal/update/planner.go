// Package update 사이트맵 기반의 증분 동기화 파이프라인을 담당합니다.
//
// 실행 한 번은 "사이트맵 해석 → 갱신 계획 → 스크래핑 → 병합 → lastmod 갱신 →
// 저장 → 내보내기"의 엄격한 순차 단계로 구성됩니다. 개별 URL의 실패는 실행을
// 중단시키지 않으며, 구조적 실패(사이트맵/카탈로그 손상)만 실행 전체를 중단시킵니다.
package update

import (
	"strings"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/sitemap"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
	"github.com/YudheerRM/ac-schnitzer/pkg/urlutil"
)

// component 동기화 파이프라인 로깅용 컴포넌트 이름
const component = "update"

// Plan 이번 실행에서 스크래핑할 URL의 순서 있는 목록입니다.
// 사이트맵의 수록 순서를 보존하며, 정규화 키 기준으로 중복이 제거되어 있습니다.
type Plan struct {
	URLs []string
}

// BuildPlan 사이트맵과 현재 카탈로그를 비교하여 스크래핑 대상을 결정합니다.
//
// 사이트맵 항목을 수록 순서대로 한 번만 순회하며:
//   - 같은 정규화 키가 이미 처리된 URL 표기는 건너뜁니다. (키당 최대 1회 스크래핑)
//   - 카탈로그에 같은 키의 레코드가 하나도 없으면 신규 상품으로 계획에 추가합니다.
//   - 레코드가 있더라도, lastmod가 사이트맵 값 이상인 레코드가 하나도 없으면
//     오래된 상품으로 계획에 추가합니다. (하나만 최신이어도 최신으로 간주)
//
// 처리한 키는 계획 포함 여부와 무관하게 항상 처리됨으로 기록됩니다.
func BuildPlan(idx *sitemap.Index, c *catalog.Catalog) *Plan {
	// 키 → 기존 레코드 인덱스를 먼저 만들어 조회를 상수 시간으로 만듭니다.
	existingByKey := indexByKey(c)

	plan := &Plan{}
	seenKeys := map[string]struct{}{}

	for _, entry := range idx.Entries() {
		key := urlutil.NormalizeKey(entry.URL)

		if _, ok := seenKeys[key]; ok {
			continue
		}
		seenKeys[key] = struct{}{}

		records, exists := existingByKey[key]
		if !exists {
			plan.URLs = append(plan.URLs, entry.URL)
			continue
		}

		if !anyUpToDate(records, entry.Lastmod) {
			plan.URLs = append(plan.URLs, entry.URL)
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"sitemap_entries": idx.Len(),
		"planned":         len(plan.URLs),
	}).Info("갱신 계획 수립 완료")

	return plan
}

// indexByKey 카탈로그의 전체 레코드를 정규화 키로 색인합니다.
func indexByKey(c *catalog.Catalog) map[string][]*catalog.Product {
	index := map[string][]*catalog.Product{}
	for _, brandProducts := range c.Products {
		for url, p := range brandProducts {
			key := urlutil.NormalizeKey(url)
			index[key] = append(index[key], p)
		}
	}
	return index
}

// anyUpToDate 레코드 중 하나라도 사이트맵의 lastmod 이상이면 true를 반환합니다.
// lastmod는 ISO-8601 형식의 불투명한 문자열이므로 사전순 비교가 시간순 비교와 같습니다.
func anyUpToDate(records []*catalog.Product, sitemapLastmod string) bool {
	for _, record := range records {
		if record.Lastmod != "" && sitemapLastmod != "" && record.Lastmod >= sitemapLastmod {
			return true
		}
	}
	return false
}

// LinkDiscoverer 브랜드 목록 페이지를 순회하며 상품 상세 페이지 링크를 수집합니다.
type LinkDiscoverer interface {
	Discover(brand string) ([]string, error)
}

// DiscoverNew 브랜드 목록 페이지를 순회하여 사이트맵에 아직 실리지 않은 신규 상품
// URL을 계획에 보충하고, 추가된 URL 개수를 반환합니다.
//
// 계획이나 카탈로그에 같은 정규화 키가 이미 있는 링크는 건너뜁니다. 브랜드 하나의
// 수집 실패는 경고로 기록될 뿐 나머지 브랜드의 수집을 중단시키지 않습니다.
func DiscoverNew(plan *Plan, c *catalog.Catalog, discoverer LinkDiscoverer, brands []string) int {
	seenKeys := map[string]struct{}{}
	for _, url := range plan.URLs {
		seenKeys[urlutil.NormalizeKey(url)] = struct{}{}
	}
	for _, brandProducts := range c.Products {
		for url := range brandProducts {
			seenKeys[urlutil.NormalizeKey(url)] = struct{}{}
		}
	}

	added := 0
	for _, brand := range brands {
		links, err := discoverer.Discover(brand)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"brand": brand,
			}).WithError(err).Warn("목록 페이지 링크 수집 실패, 다음 브랜드로 계속 진행합니다")
			continue
		}

		for _, link := range links {
			key := urlutil.NormalizeKey(link)
			if _, ok := seenKeys[key]; ok {
				continue
			}
			seenKeys[key] = struct{}{}
			plan.URLs = append(plan.URLs, link)
			added++
		}
	}

	return added
}

// knownBrandTokens URL에 포함된 브랜드 판별용 토큰입니다. 선언 순서대로 검사합니다.
var knownBrandTokens = []string{"bmw", "mini", "toyota", "accessoires"}

// InferBrand 상품 URL에서 브랜드를 추론합니다. 판별할 수 없으면 "unknown"을 반환합니다.
func InferBrand(url string) string {
	lowered := strings.ToLower(url)
	for _, token := range knownBrandTokens {
		if strings.Contains(lowered, token) {
			return token
		}
	}
	return "unknown"
}
