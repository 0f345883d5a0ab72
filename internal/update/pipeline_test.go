package update

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	"github.com/YudheerRM/ac-schnitzer/internal/scraper"
)

const pipelineProductHTML = `<!DOCTYPE html>
<html>
<head><title>ACS Widget</title>
<meta itemprop="price" content="1299.00">
<meta itemprop="priceCurrency" content="EUR">
</head>
<body>
<h1 class="product--title">ACS Widget</h1>
<span class="product--ordernumber">SKU 371001</span>
<div class="delivery--information">
  <span class="delivery--text delivery--text-available">Available immediately</span>
</div>
</body>
</html>`

// newPipelineServer 사이트맵과 상품 페이지를 함께 제공하는 테스트 서버를 생성합니다.
func newPipelineServer(t *testing.T, productPaths []string, failPaths map[string]bool) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sitemap.xml.gz" {
			document := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
			for _, path := range productPaths {
				document += `<url><loc>` + server.URL + path + `</loc><lastmod>2024-01-01</lastmod></url>`
			}
			document += `</urlset>`

			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, err := gz.Write([]byte(document))
			require.NoError(t, err)
			require.NoError(t, gz.Close())

			w.Header().Set("Content-Type", "application/gzip")
			//nolint:errcheck
			w.Write(buf.Bytes())
			return
		}

		if failPaths[r.URL.Path] {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck
		w.Write([]byte(pipelineProductHTML))
	}))
	return server
}

// newTestPipeline 임시 디렉터리 위에 파이프라인을 조립합니다.
func newTestPipeline(t *testing.T, serverURL string, exportOptions *export.Options) (*Pipeline, *catalog.FileStore) {
	t.Helper()

	store, err := catalog.NewFileStore(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)

	sc := scraper.New(scraper.NewHTTPFetcher(""), 0)
	pipeline := NewPipeline(store, sc, http.DefaultClient, Config{
		SitemapURL: serverURL + "/sitemap.xml.gz",
		Export:     exportOptions,
	})
	return pipeline, store
}

func TestPipelineRun(t *testing.T) {
	t.Run("성공: 사이트맵에서 수집한 상품이 카탈로그에 저장된다", func(t *testing.T) {
		// Given
		server := newPipelineServer(t, []string{"/en/bmw/371/acs-widget/"}, nil)
		defer server.Close()

		pipeline, store := newTestPipeline(t, server.URL, nil)

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SitemapEntries)
		assert.Equal(t, 1, summary.Planned)
		assert.Equal(t, 1, summary.Scraped)
		assert.Equal(t, 1, summary.Merged)
		assert.Zero(t, summary.Failed)

		c, err := store.Load()
		require.NoError(t, err)
		p, ok := c.Get("bmw", server.URL + "/en/bmw/371/acs-widget/")
		require.True(t, ok)
		assert.Equal(t, "ACS Widget", p.Title)
		assert.Equal(t, "2024-01-01", p.Lastmod)
	})

	t.Run("성공: 두 번째 실행은 최신 레코드를 건너뛴다", func(t *testing.T) {
		// Given
		server := newPipelineServer(t, []string{"/en/bmw/371/acs-widget/"}, nil)
		defer server.Close()

		pipeline, _ := newTestPipeline(t, server.URL, nil)
		_, err := pipeline.Run(context.Background())
		require.NoError(t, err)

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Zero(t, summary.Planned)
		assert.Zero(t, summary.Scraped)
	})

	t.Run("성공: 개별 URL 실패는 실행을 중단시키지 않는다", func(t *testing.T) {
		// Given
		server := newPipelineServer(t,
			[]string{"/en/bmw/371/acs-widget/", "/en/bmw/500/acs-broken/"},
			map[string]bool{"/en/bmw/500/acs-broken/": true})
		defer server.Close()

		pipeline, store := newTestPipeline(t, server.URL, nil)

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Planned)
		assert.Equal(t, 1, summary.Scraped)
		assert.Equal(t, 1, summary.Failed)
		assert.Len(t, summary.FailureDetails, 1)

		c, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, 1, c.TotalProducts())
	})

	t.Run("성공: 내보내기 옵션이 있으면 CSV 파일이 생성된다", func(t *testing.T) {
		// Given
		server := newPipelineServer(t, []string{"/en/bmw/371/acs-widget/"}, nil)
		defer server.Close()

		outputPath := filepath.Join(t.TempDir(), "products.csv")
		pipeline, _ := newTestPipeline(t, server.URL, &export.Options{OutputPath: outputPath})

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		require.NoError(t, err)
		require.Len(t, summary.ExportFiles, 1)
		assert.FileExists(t, summary.ExportFiles[0])
	})

	t.Run("성공: 목록 페이지에서 발견한 신규 상품도 함께 수집된다", func(t *testing.T) {
		// Given: 사이트맵에는 acs-widget만 있고, acs-hidden은 목록 페이지에서만 발견된다
		server := newPipelineServer(t, []string{"/en/bmw/371/acs-widget/"}, nil)
		defer server.Close()

		store, err := catalog.NewFileStore(filepath.Join(t.TempDir(), "catalog.json"))
		require.NoError(t, err)

		pipeline := NewPipeline(store, scraper.New(scraper.NewHTTPFetcher(""), 0), http.DefaultClient, Config{
			SitemapURL: server.URL + "/sitemap.xml.gz",
			Discoverer: &stubDiscoverer{links: map[string][]string{
				"bmw": {
					server.URL + "/en/bmw/371/acs-widget/",
					server.URL + "/en/bmw/800/acs-hidden/",
				},
			}},
			DiscoverBrands: []string{"bmw"},
		})

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Planned)
		assert.Equal(t, 1, summary.Discovered)
		assert.Equal(t, 2, summary.Scraped)
		assert.Equal(t, 2, summary.Merged)

		c, err := store.Load()
		require.NoError(t, err)
		_, ok := c.Get("bmw", server.URL + "/en/bmw/800/acs-hidden/")
		assert.True(t, ok)
	})

	t.Run("실패: 사이트맵 다운로드에 실패하면 치명적 에러를 반환한다", func(t *testing.T) {
		// Given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		pipeline, store := newTestPipeline(t, server.URL, nil)

		// When
		summary, err := pipeline.Run(context.Background())

		// Then
		assert.Nil(t, summary)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))

		// 카탈로그 파일은 생성되지 않는다
		c, loadErr := store.Load()
		require.NoError(t, loadErr)
		assert.Zero(t, c.TotalProducts())
	})
}
