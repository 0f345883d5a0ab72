package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	"github.com/YudheerRM/ac-schnitzer/internal/sitemap"
)

// buildIndex 테스트용 사이트맵 인덱스를 생성합니다.
func buildIndex(t *testing.T, entries ...[2]string) *sitemap.Index {
	t.Helper()

	document := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, entry := range entries {
		document += `<url><loc>` + entry[0] + `</loc><lastmod>` + entry[1] + `</lastmod></url>`
	}
	document += `</urlset>`

	idx, err := sitemap.Parse([]byte(document))
	require.NoError(t, err)
	return idx
}

func TestBuildPlan(t *testing.T) {
	t.Run("성공: 카탈로그에 없는 URL은 신규 상품으로 계획에 추가된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Equal(t, []string{"https://example.com/en/bmw/371/acs-widget/"}, plan.URLs)
	})

	t.Run("성공: lastmod가 최신인 레코드는 계획에서 제외된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/371/acs-widget/",
			Lastmod: "2024-01-01",
		})

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Empty(t, plan.URLs)
	})

	t.Run("성공: lastmod가 오래된 레코드는 계획에 추가된다", func(t *testing.T) {
		// Given: 사이트맵의 상품 번호(371)와 카탈로그의 상품 번호(372)가 다르지만
		// 슬러그(acs-widget)가 같으므로 정규화 키로 매칭된다
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/372/acs-widget/",
			Lastmod: "2023-12-01",
		})

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Equal(t, []string{"https://example.com/en/bmw/371/acs-widget/"}, plan.URLs)
	})

	t.Run("성공: 같은 키의 레코드 중 하나만 최신이어도 계획에서 제외된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/371/acs-widget/",
			Lastmod: "2023-01-01",
		})
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/372/acs-widget/",
			Lastmod: "2024-06-01",
		})

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Empty(t, plan.URLs)
	})

	t.Run("성공: 같은 키의 URL 표기가 여러 개면 첫 표기만 계획에 포함된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
			[2]string{"https://example.com/en/bmw/372/acs-widget/", "2024-02-01"},
			[2]string{"https://example.com/en/bmw/500/acs-other/", "2024-01-01"},
		)
		c := catalog.New()

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Equal(t, []string{
			"https://example.com/en/bmw/371/acs-widget/",
			"https://example.com/en/bmw/500/acs-other/",
		}, plan.URLs)
	})

	t.Run("성공: lastmod가 없는 레코드는 오래된 것으로 취급된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand: "bmw",
			URL:   "https://example.com/en/bmw/371/acs-widget/",
		})

		// When
		plan := BuildPlan(idx, c)

		// Then
		assert.Len(t, plan.URLs, 1)
	})
}

// stubDiscoverer 브랜드별로 미리 정해진 링크 목록을 돌려주는 테스트용 수집기입니다.
type stubDiscoverer struct {
	links map[string][]string
	errs  map[string]error
}

func (d *stubDiscoverer) Discover(brand string) ([]string, error) {
	if err, ok := d.errs[brand]; ok {
		return nil, err
	}
	return d.links[brand], nil
}

func TestDiscoverNew(t *testing.T) {
	t.Run("성공: 계획과 카탈로그에 없는 링크만 보충된다", func(t *testing.T) {
		// Given: 계획에 acs-widget, 카탈로그에 acs-other가 이미 있다
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand: "bmw",
			URL:   "https://example.com/en/bmw/500/acs-other/",
		})
		plan := &Plan{URLs: []string{"https://example.com/en/bmw/371/acs-widget/"}}
		discoverer := &stubDiscoverer{links: map[string][]string{
			"bmw": {
				"https://example.com/en/bmw/371/acs-widget/",
				"https://example.com/en/bmw/501/acs-other/",
				"https://example.com/en/bmw/999/acs-fresh/",
			},
		}}

		// When
		added := DiscoverNew(plan, c, discoverer, []string{"bmw"})

		// Then: 같은 정규화 키의 다른 표기도 모두 건너뛴다
		assert.Equal(t, 1, added)
		assert.Equal(t, []string{
			"https://example.com/en/bmw/371/acs-widget/",
			"https://example.com/en/bmw/999/acs-fresh/",
		}, plan.URLs)
	})

	t.Run("성공: 브랜드 간 중복 링크는 한 번만 보충된다", func(t *testing.T) {
		// Given
		c := catalog.New()
		plan := &Plan{}
		discoverer := &stubDiscoverer{links: map[string][]string{
			"bmw":  {"https://example.com/en/bmw/1/acs-shared/"},
			"mini": {"https://example.com/en/mini/2/acs-shared/"},
		}}

		// When
		added := DiscoverNew(plan, c, discoverer, []string{"bmw", "mini"})

		// Then
		assert.Equal(t, 1, added)
		assert.Equal(t, []string{"https://example.com/en/bmw/1/acs-shared/"}, plan.URLs)
	})

	t.Run("성공: 한 브랜드의 수집 실패가 다른 브랜드의 수집을 막지 않는다", func(t *testing.T) {
		// Given
		c := catalog.New()
		plan := &Plan{}
		discoverer := &stubDiscoverer{
			links: map[string][]string{
				"mini": {"https://example.com/en/mini/2/acs-gadget/"},
			},
			errs: map[string]error{
				"bmw": apperrors.New(apperrors.ExecutionFailed, "목록 페이지를 가져오지 못했습니다"),
			},
		}

		// When
		added := DiscoverNew(plan, c, discoverer, []string{"bmw", "mini"})

		// Then
		assert.Equal(t, 1, added)
		assert.Equal(t, []string{"https://example.com/en/mini/2/acs-gadget/"}, plan.URLs)
	})
}

func TestInferBrand(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"https://example.com/en/bmw/371/acs-widget/", "bmw"},
		{"https://example.com/en/MINI/372/acs-gadget/", "mini"},
		{"https://example.com/en/toyota/gr-supra/1/acs-thing/", "toyota"},
		{"https://example.com/en/accessoires/lifestyle/2/acs-cap/", "accessoires"},
		{"https://example.com/en/other/3/acs-part/", "unknown"},
	}

	for _, tc := range testCases {
		t.Run("성공: "+tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, InferBrand(tc.url))
		})
	}
}
