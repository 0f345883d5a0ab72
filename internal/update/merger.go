package update

import (
	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/sitemap"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
	"github.com/YudheerRM/ac-schnitzer/pkg/urlutil"
)

// Merge 스크래핑된 레코드를 카탈로그에 병합하고 병합된 개수를 반환합니다.
//
// 각 레코드는 (브랜드, 원본 URL) 키로 삽입 또는 덮어쓰기되며, lastmod는
// 정규화 키로 사이트맵에서 조회하여 찍습니다. 사이트맵에서 lastmod를 찾을 수
// 없는 레코드는 경고만 남기고 정상 병합됩니다. (다음 실행에서 다시 오래된
// 상품으로 분류될 뿐입니다) 같은 레코드를 두 번 병합해도 결과는 같습니다.
func Merge(c *catalog.Catalog, scraped []*catalog.Product, idx *sitemap.Index) int {
	merged := 0

	for _, p := range scraped {
		key := urlutil.NormalizeKey(p.URL)
		if lastmod, ok := idx.LastmodByKey(key); ok {
			p.Lastmod = lastmod
		} else {
			applog.WithComponentAndFields(component, applog.Fields{
				"brand": p.Brand,
				"url":   p.URL,
				"key":   key,
			}).Warn("사이트맵에서 lastmod를 찾을 수 없습니다")
		}

		c.Upsert(p)
		merged++
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"merged": merged,
	}).Info("카탈로그 병합 완료")

	return merged
}

// RefreshLastmod 카탈로그 전체를 훑으며 정규화 키가 사이트맵에서 해석되는 모든
// 레코드의 lastmod를 현재 값으로 다시 찍습니다.
//
// 이번 실행에서 스크래핑되지 않은 레코드도 대상입니다. 내용은 그대로인데
// 사이트맵의 타임스탬프만 바뀐 상품을 재스크래핑 없이 최신 상태로 유지합니다.
// 값이 실제로 바뀐 레코드의 개수를 반환합니다.
func RefreshLastmod(c *catalog.Catalog, idx *sitemap.Index) int {
	updated := 0

	for _, brandProducts := range c.Products {
		for url, p := range brandProducts {
			lastmod, ok := idx.LastmodByKey(urlutil.NormalizeKey(url))
			if !ok {
				continue
			}
			if p.Lastmod != lastmod {
				p.Lastmod = lastmod
				updated++
			}
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"updated": updated,
	}).Info("lastmod 일괄 갱신 완료")

	return updated
}
