package export

import (
	"fmt"
	"strings"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
)

// BuildRows 상품 레코드 하나를 CSV 행 시퀀스로 전개합니다.
//
// 옵션이 없는 상품은 simple 행 하나가 됩니다. 옵션이 있는 상품은 variable 부모 행
// 하나와, 옵션 축(최대 4개)의 모든 선택지 조합(데카르트 곱)마다 variation 자식 행
// 하나씩으로 전개됩니다. 자식 행은 부모의 SKU를 Parent로 참조하며, 가격과 재고
// 상태를 그대로 물려받습니다.
func BuildRows(p *catalog.Product, priceFormula string) []Row {
	parentRow := newRow()
	parentRow["Type"] = TypeSimple
	sku := p.EffectiveSKU()
	parentRow["SKU"] = sku
	parentRow["Name"] = strings.TrimSpace(p.Title)
	parentRow["Published"] = "1"
	parentRow["Is featured?"] = "0"
	parentRow["Visibility in catalog"] = "visible"

	short, long := Descriptions(p)
	parentRow["Short description"] = short
	parentRow["Description"] = long

	parentRow["Tax status"] = "taxable"
	parentRow["In stock?"] = boolFlag(p.Availability.InStock())
	parentRow["Backorders allowed?"] = "0"
	parentRow["Sold individually?"] = "0"
	parentRow["Allow customer reviews?"] = "1"

	parentRow["Regular price"] = ApplyPriceFormula(NormalizePrice(p.Price.Amount), priceFormula)
	parentRow["Categories"] = FormatCategories(p)
	parentRow["Images"] = formatImages(p)
	parentRow["Meta: _wpcom_is_markdown"] = "0"

	for i, document := range downloadDocuments(p) {
		parentRow[fmt.Sprintf("Download %d name", i+1)] = coalesce(document.Label, document.URL)
		parentRow[fmt.Sprintf("Download %d URL", i+1)] = document.URL
	}

	if len(p.Variations) == 0 {
		return []Row{parentRow}
	}

	// 옵션이 있는 상품은 부모 행이 variable 타입이 됩니다.
	parentRow["Type"] = TypeVariable

	var attrNames []string
	var attrOptions [][]string

	validVariations := p.Variations
	if len(validVariations) > maxAttributes {
		validVariations = validVariations[:maxAttributes]
	}

	for _, variation := range validVariations {
		if variation.Name == "" || len(variation.Options) == 0 {
			continue
		}

		idx := len(attrNames) + 1
		attrNames = append(attrNames, variation.Name)
		attrOptions = append(attrOptions, variation.Options)

		// 부모 행에는 축의 전체 선택지를 노출합니다. (visible & global)
		parentRow[fmt.Sprintf("Attribute %d name", idx)] = variation.Name
		parentRow[fmt.Sprintf("Attribute %d value(s)", idx)] = strings.Join(variation.Options, ", ")
		parentRow[fmt.Sprintf("Attribute %d visible", idx)] = "1"
		parentRow[fmt.Sprintf("Attribute %d global", idx)] = "1"
	}

	rows := []Row{parentRow}

	for _, combo := range cartesianProduct(attrOptions) {
		varRow := newRow()
		varRow["Type"] = TypeVariation
		varRow["Parent"] = sku
		varRow["Published"] = "1"
		varRow["Visibility in catalog"] = "visible"
		varRow["Tax status"] = "taxable"
		varRow["In stock?"] = parentRow["In stock?"]
		varRow["Regular price"] = parentRow["Regular price"]

		// 자식 행의 속성은 global만 표시하고 visible은 비워둡니다.
		for i, value := range combo {
			varRow[fmt.Sprintf("Attribute %d name", i+1)] = attrNames[i]
			varRow[fmt.Sprintf("Attribute %d value(s)", i+1)] = value
			varRow[fmt.Sprintf("Attribute %d global", i+1)] = "1"
		}

		rows = append(rows, varRow)
	}

	return rows
}

// cartesianProduct 옵션 축들의 모든 선택지 조합을 축 순서를 보존하며 생성합니다.
// 예: [[S, M], [Red, Blue]] → [S Red], [S Blue], [M Red], [M Blue]
func cartesianProduct(axes [][]string) [][]string {
	if len(axes) == 0 {
		return nil
	}

	combos := [][]string{{}}
	for _, options := range axes {
		var next [][]string
		for _, combo := range combos {
			for _, option := range options {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, option))
			}
		}
		combos = next
	}
	return combos
}

// formatImages 이미지 URL 목록을 CSV 이미지 필드로 변환합니다.
// 자리 표시 이미지(no-picture.jpg)를 걸러내고, 대소문자 구분 없이 중복을 제거합니다.
func formatImages(p *catalog.Product) string {
	var urls []string
	seen := map[string]struct{}{}

	for _, imageURL := range p.ImageURLs {
		trimmed := strings.TrimSpace(imageURL)
		if trimmed == "" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(trimmed), "no-picture.jpg") {
			continue
		}

		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		urls = append(urls, trimmed)
	}

	return strings.Join(urls, ", ")
}

// downloadDocuments CSV가 지원하는 다운로드 컬럼 수(2개)만큼 첨부 문서를 선택합니다.
func downloadDocuments(p *catalog.Product) []catalog.Document {
	var documents []catalog.Document
	for _, document := range p.Documents {
		if document.URL == "" {
			continue
		}
		documents = append(documents, document)
		if len(documents) == 2 {
			break
		}
	}
	return documents
}

// boolFlag 불리언을 CSV 플래그 표기("1"/"0")로 변환합니다.
func boolFlag(condition bool) string {
	if condition {
		return "1"
	}
	return "0"
}

// coalesce 비어있지 않은 첫 번째 값을 반환합니다.
func coalesce(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
