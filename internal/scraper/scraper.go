package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// Target 스크래핑할 상품 페이지 하나입니다.
type Target struct {
	Brand string
	URL   string
}

// Failure 재시도를 모두 소진한 개별 URL의 실패 기록입니다.
type Failure struct {
	Brand string
	URL   string
	Err   error
}

// Scraper 상품 페이지를 순차적으로 내려받아 카탈로그 레코드로 변환합니다.
//
// 요청은 항상 한 번에 하나씩 수행되며, 요청 사이에 속도 제한기로 필수 지연을
// 보장합니다. 개별 URL의 실패는 Failure로 기록될 뿐 전체 실행을 중단시키지 않습니다.
type Scraper struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// New 새로운 Scraper 인스턴스를 생성합니다.
// requestDelay는 연속된 요청 사이에 보장되는 최소 대기 시간입니다. (0 이하면 지연 없음)
func New(fetcher Fetcher, requestDelay time.Duration) *Scraper {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(requestDelay), 1)
	}

	return &Scraper{
		fetcher: fetcher,
		limiter: limiter,
	}
}

// ScrapeOne 상품 페이지 하나를 내려받아 해석합니다.
func (s *Scraper) ScrapeOne(target Target) (*catalog.Product, error) {
	doc, err := FetchHTMLDocument(s.fetcher, target.URL)
	if err != nil {
		return nil, err
	}

	return ParseProduct(doc, target.URL, target.Brand), nil
}

// Scrape 대상 목록을 순서대로 스크래핑하여 성공한 레코드와 개별 실패를 반환합니다.
// 부분 결과는 정상이며, 실패가 있어도 에러를 반환하지 않습니다.
func (s *Scraper) Scrape(ctx context.Context, targets []Target) ([]*catalog.Product, []Failure) {
	var products []*catalog.Product
	var failures []Failure

	for i, target := range targets {
		if err := s.limiter.Wait(ctx); err != nil {
			// 컨텍스트가 취소된 경우, 남은 대상은 모두 실패로 기록하고 종료합니다.
			for _, remaining := range targets[i:] {
				failures = append(failures, Failure{Brand: remaining.Brand, URL: remaining.URL, Err: err})
			}
			break
		}

		product, err := s.ScrapeOne(target)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"brand": target.Brand,
				"url":   target.URL,
			}).WithError(err).Error("상품 페이지 스크래핑 실패")

			failures = append(failures, Failure{Brand: target.Brand, URL: target.URL, Err: err})
			continue
		}

		products = append(products, product)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"targets":  len(targets),
		"scraped":  len(products),
		"failures": len(failures),
	}).Info("스크래핑 완료")

	return products, failures
}
