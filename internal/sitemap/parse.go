package sitemap

import (
	"encoding/xml"
	"strings"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// sitemapNamespace 사이트맵 프로토콜의 기본 XML 네임스페이스입니다.
const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// xmlURLSet 사이트맵 XML 문서의 루트 요소입니다.
type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []xmlURL `xml:"url"`
}

// xmlURL 사이트맵의 url 요소 하나입니다.
type xmlURL struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod"`
}

// Parse 사이트맵 XML 문서를 해석하여 인덱스를 생성합니다.
//
// loc과 lastmod를 모두 가진 url 요소만 수록되며, 둘 중 하나라도 없는 항목은
// 조용히 건너뜁니다. 카테고리/목록 페이지는 수록 전에 걸러집니다.
// 문서 자체를 해석할 수 없는 경우는 치명적 에러이며, 호출자는 동기화를 중단해야 합니다.
func Parse(document []byte) (*Index, error) {
	var urlSet xmlURLSet
	if err := xml.Unmarshal(document, &urlSet); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "사이트맵 XML 문서를 해석할 수 없습니다")
	}

	if urlSet.XMLName.Space != sitemapNamespace {
		return nil, apperrors.Newf(apperrors.ParsingFailed, "사이트맵 XML 네임스페이스가 올바르지 않습니다. (%s)", urlSet.XMLName.Space)
	}

	idx := newIndex()
	skippedCategories := 0

	for _, u := range urlSet.URLs {
		loc := strings.TrimSpace(u.Loc)
		lastmod := strings.TrimSpace(u.Lastmod)
		if loc == "" || lastmod == "" {
			continue
		}

		if isCategoryPage(loc) {
			skippedCategories++
			continue
		}

		idx.add(loc, lastmod)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"products":           idx.Len(),
		"skipped_categories": skippedCategories,
	}).Info("사이트맵 해석 완료")

	return idx, nil
}
