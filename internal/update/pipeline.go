package update

import (
	"context"
	"fmt"
	"time"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	"github.com/YudheerRM/ac-schnitzer/internal/scraper"
	"github.com/YudheerRM/ac-schnitzer/internal/sitemap"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// maxFailureDetails 요약에 수록되는 개별 실패 상세의 최대 개수입니다.
const maxFailureDetails = 10

// Summary 동기화 실행 한 번의 결과입니다.
// 실행 상태는 항상 이 구조체로 반환되며, 전역 상태로 공유되지 않습니다.
type Summary struct {
	StartedAt  time.Time
	FinishedAt time.Time

	SitemapEntries int
	Planned        int
	Discovered     int
	Scraped        int
	Merged         int
	Refreshed      int
	Failed         int

	// FailureDetails 개별 URL 실패의 상세 목록. maxFailureDetails개로 제한됩니다.
	FailureDetails []string

	// ExportFiles 내보내기 단계가 생성한 CSV 파일 경로 목록입니다.
	ExportFiles []string
}

// Config 동기화 파이프라인 설정입니다.
type Config struct {
	// SitemapURL 다운로드할 사이트맵의 URL입니다. (보통 .xml.gz)
	SitemapURL string

	// Export 내보내기 단계의 옵션. nil이면 내보내기를 생략합니다.
	Export *export.Options

	// Discoverer 목록 페이지 순회로 워크리스트를 보강할 수집기. nil이면 생략합니다.
	Discoverer LinkDiscoverer

	// DiscoverBrands 목록 페이지를 순회할 브랜드 슬러그 목록입니다.
	DiscoverBrands []string
}

// Pipeline 증분 동기화 실행기입니다.
//
// 실행은 단일 스레드로 순차 진행되며, 실행 중 카탈로그는 파이프라인이 독점
// 소유합니다. 동시 실행은 지원하지 않으므로 호출자가 단일 작업 슬롯 등으로
// 직렬화해야 합니다.
type Pipeline struct {
	store   *catalog.FileStore
	scraper *scraper.Scraper
	fetcher sitemap.Fetcher
	config  Config
}

// NewPipeline 새로운 Pipeline 인스턴스를 생성합니다.
func NewPipeline(store *catalog.FileStore, sc *scraper.Scraper, fetcher sitemap.Fetcher, config Config) *Pipeline {
	return &Pipeline{
		store:   store,
		scraper: sc,
		fetcher: fetcher,
		config:  config,
	}
}

// Run 동기화 파이프라인을 처음부터 끝까지 실행합니다.
//
// 사이트맵 해석 실패와 카탈로그 손상은 치명적 에러로 즉시 반환되며, 이 경우
// 카탈로그에는 아무것도 기록되지 않습니다. 개별 URL의 스크래핑 실패는 요약에
// 기록될 뿐 에러로 반환되지 않습니다.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{StartedAt: time.Now()}
	defer func() { summary.FinishedAt = time.Now() }()

	// 1. 사이트맵 다운로드 + 해석 (실패 시 치명적: 부분 사이트맵은 쓸 수 없음)
	idx, err := sitemap.Fetch(p.fetcher, p.config.SitemapURL)
	if err != nil {
		return nil, err
	}
	summary.SitemapEntries = idx.Len()

	// 2. 카탈로그 로드 (손상 시 치명적: 손상된 카탈로그 위의 동기화는 데이터 유실)
	cat, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	// 3. 갱신 계획 수립
	plan := BuildPlan(idx, cat)
	summary.Planned = len(plan.URLs)

	// 3-1. 목록 페이지 순회로 사이트맵에 없는 신규 상품을 보충 (선택)
	if p.config.Discoverer != nil && len(p.config.DiscoverBrands) > 0 {
		summary.Discovered = DiscoverNew(plan, cat, p.config.Discoverer, p.config.DiscoverBrands)
	}

	// 4. 스크래핑 (개별 실패는 기록만 하고 계속 진행)
	if len(plan.URLs) > 0 {
		targets := make([]scraper.Target, 0, len(plan.URLs))
		for _, url := range plan.URLs {
			targets = append(targets, scraper.Target{Brand: InferBrand(url), URL: url})
		}

		products, failures := p.scraper.Scrape(ctx, targets)
		summary.Scraped = len(products)
		summary.Failed = len(failures)
		for _, failure := range failures {
			if len(summary.FailureDetails) >= maxFailureDetails {
				break
			}
			summary.FailureDetails = append(summary.FailureDetails,
				fmt.Sprintf("%s:%s -> %v", failure.Brand, failure.URL, failure.Err))
		}

		// 5. 병합
		summary.Merged = Merge(cat, products, idx)
	}

	// 6. 스크래핑 여부와 무관하게 전체 카탈로그의 lastmod를 갱신
	summary.Refreshed = RefreshLastmod(cat, idx)

	// 7. 저장
	if err := p.store.Save(cat); err != nil {
		return nil, err
	}

	// 8. 내보내기 (선택)
	if p.config.Export != nil {
		result, err := export.Run(cat, *p.config.Export)
		if err != nil {
			return nil, err
		}
		summary.ExportFiles = result.Files
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"sitemap_entries": summary.SitemapEntries,
		"planned":         summary.Planned,
		"discovered":      summary.Discovered,
		"scraped":         summary.Scraped,
		"merged":          summary.Merged,
		"failed":          summary.Failed,
	}).Info("동기화 실행 완료")

	return summary, nil
}

// String 실행 요약을 알림/로그용 한 줄 보고서로 만듭니다.
func (s *Summary) String() string {
	return fmt.Sprintf("사이트맵 %d건, 계획 %d건, 스크래핑 %d건, 병합 %d건, 실패 %d건 (소요 %s)",
		s.SitemapEntries, s.Planned, s.Scraped, s.Merged, s.Failed,
		s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
}
