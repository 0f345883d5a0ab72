package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// Discoverer 브랜드별 상품 목록 페이지를 순회하며 상품 상세 페이지 링크를 수집합니다.
//
// 목록 페이지는 `?p=N` 쿼리로 페이지네이션되며, 404 응답이나 상품 링크가 없는
// 페이지를 만나면 해당 브랜드의 마지막 페이지로 간주하고 순회를 종료합니다.
type Discoverer struct {
	baseURL   string
	userAgent string
	delay     time.Duration
	maxPages  int
}

// NewDiscoverer 새로운 Discoverer 인스턴스를 생성합니다.
// maxPages는 브랜드당 순회할 최대 페이지 수이며, 0 이하면 기본값(1000)이 적용됩니다.
func NewDiscoverer(baseURL, userAgent string, delay time.Duration, maxPages int) *Discoverer {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if maxPages <= 0 {
		maxPages = 1000
	}

	return &Discoverer{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		delay:     delay,
		maxPages:  maxPages,
	}
}

// Discover 지정된 브랜드의 목록 페이지를 첫 페이지부터 순서대로 방문하며
// 상품 상세 페이지 링크를 수집합니다. 반환되는 링크는 중복이 제거된 발견 순서입니다.
func (d *Discoverer) Discover(brand string) ([]string, error) {
	collector := colly.NewCollector(
		colly.UserAgent(d.userAgent),
	)

	if d.delay > 0 {
		if err := collector.Limit(&colly.LimitRule{DomainGlob: "*", Delay: d.delay}); err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "수집기 속도 제한 설정에 실패했습니다")
		}
	}

	var links []string
	seen := map[string]struct{}{}
	pageLinkCount := 0

	collector.OnHTML("a.buybox--button", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}

		pageLinkCount++
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	for page := 1; page <= d.maxPages; page++ {
		pageLinkCount = 0
		pageURL := fmt.Sprintf("%s/%s/?p=%d", d.baseURL, brand, page)

		if err := collector.Visit(pageURL); err != nil {
			// 404는 카테고리의 끝을 의미하므로 에러가 아닙니다.
			applog.WithComponentAndFields(component, applog.Fields{
				"brand": brand,
				"page":  page,
			}).WithError(err).Debug("목록 페이지 방문 종료")
			break
		}

		if pageLinkCount == 0 {
			break
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"brand": brand,
		"links": len(links),
	}).Info("상품 링크 수집 완료")

	return links, nil
}
