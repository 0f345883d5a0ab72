// Package scraper 상품 상세 페이지를 내려받아 카탈로그 레코드로 해석합니다.
//
// 스크래핑은 한 번에 하나의 요청만 수행하며, 요청 사이에 필수 지연을 두고
// URL별로 제한된 횟수만큼 재시도합니다. 한 URL의 실패는 실행 전체를 중단시키지
// 않고 개별 실패로만 기록됩니다.
package scraper

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

// defaultUserAgent User-Agent 헤더가 지정되지 않은 경우 사용되는 기본값입니다.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher 기본 타임아웃 및 User-Agent 자동 추가 기능이 내장된 HTTP 클라이언트 구현체입니다.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher 기본 타임아웃(30초) 설정이 포함된 새로운 HTTPFetcher 인스턴스를 생성합니다.
// userAgent가 빈 문자열이면 기본값(Chrome)이 사용됩니다.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: userAgent,
	}
}

// Get 지정된 URL로 HTTP GET 요청을 전송합니다.
func (h *HTTPFetcher) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return h.Do(req)
}

// Do 커스텀 HTTP 요청을 실행합니다.
// 요청 헤더에 User-Agent가 없는 경우, 설정된 값을 자동으로 추가하여 봇 차단을 방지합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	}
	if req.Header.Get("Accept-Language") == "" {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	}
	return h.client.Do(req)
}

// FetchHTMLDocument 지정된 URL로 HTTP 요청을 보내 HTML 문서를 가져오고, goquery.Document로 파싱합니다.
// 응답 헤더의 Content-Type을 분석하여, 비 UTF-8 인코딩 페이지도 자동으로 UTF-8로 변환하여 처리합니다.
func FetchHTMLDocument(fetcher Fetcher, url string) (*goquery.Document, error) {
	resp, err := fetcher.Get(url)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("상품 페이지(%s) 요청 중 네트워크 또는 클라이언트 에러가 발생했습니다", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.ExecutionFailed, "상품 페이지(%s) 요청이 실패했습니다. 상태 코드: %s", url, resp.Status)
	}

	// Content-Type 헤더를 기반으로 인코딩을 UTF-8로 변환
	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("페이지(%s)의 인코딩 변환이 실패하였습니다", url))
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("불러온 페이지(%s)의 데이터 파싱이 실패하였습니다", url))
	}

	return doc, nil
}
