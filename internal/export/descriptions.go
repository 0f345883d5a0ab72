package export

import (
	"regexp"
	"strings"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
)

var (
	documentationSectionRe = regexp.MustCompile(`(?is)<h3>Documentation</h3>.*`)
	manufacturerSectionRe  = regexp.MustCompile(`(?i)<h3>Manufacturer Information</h3>`)
	nextSectionRe          = regexp.MustCompile(`(?i)<h3`)
)

// Descriptions 상품 정보 섹션에서 CSV의 짧은/긴 설명을 선택합니다.
//
// 선택 규칙 (제목은 대소문자 무시):
//   - Overview와 Description이 모두 있으면: 짧은 설명=Overview, 긴 설명=Description
//   - Description만 있으면: 짧은 설명 없음, 긴 설명=Description
//   - Overview만 있으면: 짧은 설명 없음, 긴 설명=Overview
//
// 섹션의 존재 여부는 text 필드로 판정하고, 내용은 html 필드를 사용합니다.
func Descriptions(p *catalog.Product) (short, long string) {
	var overview, description *catalog.InfoSection
	for i := range p.Information {
		section := &p.Information[i]
		switch strings.ToLower(strings.TrimSpace(section.Title)) {
		case "overview":
			if overview == nil {
				overview = section
			}
		case "description":
			if description == nil {
				description = section
			}
		}
	}

	hasOverview := overview != nil && strings.TrimSpace(overview.Text) != ""
	hasDescription := description != nil && strings.TrimSpace(description.Text) != ""

	switch {
	case hasOverview && hasDescription:
		short = overview.HTML
		long = description.HTML
	case hasDescription:
		long = description.HTML
	case hasOverview:
		long = overview.HTML
	}

	return cleanDescriptionHTML(short), cleanDescriptionHTML(long)
}

// cleanDescriptionHTML 설명 HTML에서 상품 설명이 아닌 하위 섹션을 제거합니다.
//
// "Documentation" 섹션은 그 이후 전체를, "Manufacturer Information" 섹션은
// 다음 <h3> 섹션이 시작되기 전까지를 제거합니다.
func cleanDescriptionHTML(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	cleaned := documentationSectionRe.ReplaceAllString(htmlContent, "")

	if loc := manufacturerSectionRe.FindStringIndex(cleaned); loc != nil {
		rest := cleaned[loc[1]:]
		if next := nextSectionRe.FindStringIndex(rest); next != nil {
			cleaned = cleaned[:loc[0]] + rest[next[0]:]
		} else {
			cleaned = cleaned[:loc[0]]
		}
	}

	return strings.TrimSpace(cleaned)
}
