// Package sitemap 쇼핑몰 사이트맵(sitemap.xml)의 다운로드와 해석을 담당합니다.
//
// 사이트맵은 증분 동기화의 유일한 기준 정보원입니다. "사이트맵에 없는 페이지는
// 알 수 없는 페이지"라는 의미론이 후속 단계(갱신 계획)에 필요하므로,
// 사이트맵 해석 실패는 부분 결과 없이 전체 실행을 중단시키는 치명적 에러입니다.
package sitemap

import (
	"strings"

	"github.com/YudheerRM/ac-schnitzer/pkg/urlutil"
)

// Entry 사이트맵의 url 항목 하나입니다.
// Lastmod는 불투명한 타임스탬프 문자열로, ISO-8601 형식이므로 사전순 비교가 가능합니다.
type Entry struct {
	URL     string
	Lastmod string
}

// Index 현재 크롤링 대상의 "URL → lastmod" 권위 맵입니다.
//
// 갱신 계획 단계가 사이트맵의 수록 순서를 보존해야 하므로, 맵과 함께
// 원본 순서의 항목 목록을 유지합니다.
type Index struct {
	entries  []Entry
	lastmods map[string]string // 원본 URL → lastmod
	keyed    map[string]string // 정규화 키 → lastmod (뒤에 나온 항목이 우선)
}

// newIndex 빈 인덱스를 생성합니다.
func newIndex() *Index {
	return &Index{
		lastmods: map[string]string{},
		keyed:    map[string]string{},
	}
}

// add 항목을 인덱스에 추가합니다.
func (idx *Index) add(url, lastmod string) {
	idx.entries = append(idx.entries, Entry{URL: url, Lastmod: lastmod})
	idx.lastmods[url] = lastmod
	idx.keyed[urlutil.NormalizeKey(url)] = lastmod
}

// Entries 사이트맵의 수록 순서 그대로 전체 항목을 반환합니다.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Len 인덱스에 수록된 항목 개수를 반환합니다.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Lastmod 원본 URL로 lastmod를 조회합니다.
func (idx *Index) Lastmod(url string) (string, bool) {
	lastmod, ok := idx.lastmods[url]
	return lastmod, ok
}

// LastmodByKey 정규화 키로 lastmod를 조회합니다.
// 같은 키의 URL이 여러 표기로 수록된 경우, 사이트맵에서 뒤에 나온 항목의 값이 반환됩니다.
func (idx *Index) LastmodByKey(key string) (string, bool) {
	lastmod, ok := idx.keyed[key]
	return lastmod, ok
}

// categorySlugs 상품이 아닌 카테고리/목록 페이지의 마지막 경로 세그먼트 집합입니다.
// 이 슬러그로 끝나는 URL은 스크래핑 대상이 아니므로 인덱스에서 제외됩니다.
var categorySlugs = map[string]struct{}{
	"wheels":                     {},
	"wheel-tyre-sets":            {},
	"xi-xd-wheel-tyre-sets":      {},
	"falcon-wheel-tyre-sets":     {},
	"exhaust":                    {},
	"engine":                     {},
	"aerodynamics":               {},
	"suspension":                 {},
	"interior":                   {},
	"exterior":                   {},
	"performance-upgrade-petrol": {},
	"performance-upgrade-diesel": {},
	"sale":                       {},
	"accessories":                {},
	"pos":                        {},
	"showroomdesign":             {},
}

// isCategoryPage URL이 상품 페이지가 아닌 카테고리/목록 페이지인지 판정합니다.
func isCategoryPage(url string) bool {
	slug := strings.ToLower(urlutil.NormalizeKey(url))
	_, ok := categorySlugs[slug]
	return ok
}
