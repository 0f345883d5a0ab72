package update

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
)

func TestMerge(t *testing.T) {
	t.Run("성공: 수집한 상품이 카탈로그에 반영되고 lastmod가 스탬핑된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		scraped := []*catalog.Product{
			{Brand: "bmw", URL: "https://example.com/en/bmw/371/acs-widget/", Title: "ACS Widget"},
		}

		// When
		merged := Merge(c, scraped, idx)

		// Then
		assert.Equal(t, 1, merged)
		p, ok := c.Get("bmw", "https://example.com/en/bmw/371/acs-widget/")
		assert.True(t, ok)
		assert.Equal(t, "ACS Widget", p.Title)
		assert.Equal(t, "2024-01-01", p.Lastmod)
	})

	t.Run("성공: 동일한 수집 결과를 두 번 병합해도 카탈로그 상태가 같다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-01-01"},
		)
		c := catalog.New()
		scraped := []*catalog.Product{
			{Brand: "bmw", URL: "https://example.com/en/bmw/371/acs-widget/", Title: "ACS Widget"},
		}

		// When
		Merge(c, scraped, idx)
		Merge(c, scraped, idx)

		// Then
		assert.Equal(t, 1, c.TotalProducts())
		p, _ := c.Get("bmw", "https://example.com/en/bmw/371/acs-widget/")
		assert.Equal(t, "2024-01-01", p.Lastmod)
	})

	t.Run("성공: 사이트맵에 lastmod가 없어도 병합은 계속된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/500/acs-other/", "2024-01-01"},
		)
		c := catalog.New()
		scraped := []*catalog.Product{
			{Brand: "bmw", URL: "https://example.com/en/bmw/371/acs-widget/", Title: "ACS Widget"},
		}

		// When
		merged := Merge(c, scraped, idx)

		// Then
		assert.Equal(t, 1, merged)
		p, ok := c.Get("bmw", "https://example.com/en/bmw/371/acs-widget/")
		assert.True(t, ok)
		assert.Empty(t, p.Lastmod)
	})
}

func TestRefreshLastmod(t *testing.T) {
	t.Run("성공: 변경된 레코드 수만 집계된다", func(t *testing.T) {
		// Given
		idx := buildIndex(t,
			[2]string{"https://example.com/en/bmw/371/acs-widget/", "2024-03-01"},
			[2]string{"https://example.com/en/bmw/500/acs-other/", "2024-01-01"},
		)
		c := catalog.New()
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/371/acs-widget/",
			Lastmod: "2024-01-01",
		})
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/500/acs-other/",
			Lastmod: "2024-01-01",
		})
		c.Upsert(&catalog.Product{
			Brand:   "bmw",
			URL:     "https://example.com/en/bmw/600/acs-unlisted/",
			Lastmod: "2023-01-01",
		})

		// When
		refreshed := RefreshLastmod(c, idx)

		// Then
		assert.Equal(t, 1, refreshed)
		p, _ := c.Get("bmw", "https://example.com/en/bmw/371/acs-widget/")
		assert.Equal(t, "2024-03-01", p.Lastmod)
		p, _ = c.Get("bmw", "https://example.com/en/bmw/600/acs-unlisted/")
		assert.Equal(t, "2023-01-01", p.Lastmod)
	})
}
