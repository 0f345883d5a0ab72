package export

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
)

// brandTitleCaser 브랜드 이름을 카테고리용 제목 표기로 변환합니다.
var brandTitleCaser = cases.Title(language.English)

// FormatCategories 상품의 카테고리 경로를 WooCommerce의 계층형 카테고리 표기로 변환합니다.
//
// 브랜드 이름을 경로에 없을 때만 맨 앞에 붙이고, 연속된 중복 항목을 접은 뒤,
// 각 깊이의 " > " 접두 경로를 ", "로 이어 붙입니다.
// 예: [BMW, Aerodynamics] → "BMW, BMW > Aerodynamics"
func FormatCategories(p *catalog.Product) string {
	var categories []string
	for _, item := range p.CategoryPath {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}

	if brand := strings.TrimSpace(p.Brand); brand != "" {
		brandTitle := brandTitleCaser.String(brand)
		if brandTitle != "" && !containsFold(categories, brandTitle) {
			categories = append([]string{brandTitle}, categories...)
		}
	}

	if len(categories) == 0 {
		return ""
	}

	// 연속된 중복 접기 (대소문자 무시)
	var deduped []string
	for _, category := range categories {
		if len(deduped) == 0 || !strings.EqualFold(category, deduped[len(deduped)-1]) {
			deduped = append(deduped, category)
		}
	}

	var hierarchical []string
	var current []string
	for _, category := range deduped {
		current = append(current, category)
		hierarchical = append(hierarchical, strings.Join(current, " > "))
	}
	return strings.Join(hierarchical, ", ")
}

// containsFold 목록에 대소문자 구분 없이 값이 포함되어 있는지 확인합니다.
func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
