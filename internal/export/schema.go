// Package export 카탈로그 레코드를 WooCommerce 상품 임포트 CSV로 변환합니다.
//
// 옵션이 있는 상품은 부모(variable) 행 하나와 옵션 조합별 자식(variation) 행들로
// 전개되며, 출력은 상품의 행 그룹을 절대로 분리하지 않는 크기 제한 배치로 나뉩니다.
package export

// 행 타입 상수. WooCommerce 임포터가 인식하는 값 그대로입니다.
const (
	TypeSimple    = "simple"
	TypeVariable  = "variable"
	TypeVariation = "variation"
)

// maxAttributes CSV 스키마가 지원하는 옵션 축(Attribute)의 최대 개수입니다.
// 이를 초과하는 옵션 축은 조용히 버려집니다.
const maxAttributes = 4

// Header WooCommerce 상품 임포트 CSV의 컬럼 순서입니다. 순서와 이름 모두 고정입니다.
var Header = []string{
	"Type",
	"SKU",
	"Name",
	"Published",
	"Is featured?",
	"Visibility in catalog",
	"Short description",
	"Description",
	"Date sale price starts",
	"Date sale price ends",
	"Tax status",
	"Tax class",
	"In stock?",
	"Stock",
	"Backorders allowed?",
	"Sold individually?",
	"Weight (lbs)",
	"Length (in)",
	"Width (in)",
	"Height (in)",
	"Allow customer reviews?",
	"Purchase note",
	"Sale price",
	"Regular price",
	"Categories",
	"Tags",
	"Shipping class",
	"Images",
	"Download limit",
	"Download expiry days",
	"Parent",
	"Grouped products",
	"Upsells",
	"Cross-sells",
	"External URL",
	"Button text",
	"Position",
	"Attribute 1 name",
	"Attribute 1 value(s)",
	"Attribute 1 visible",
	"Attribute 1 global",
	"Attribute 2 name",
	"Attribute 2 value(s)",
	"Attribute 2 visible",
	"Attribute 2 global",
	"Attribute 3 name",
	"Attribute 3 value(s)",
	"Attribute 3 visible",
	"Attribute 3 global",
	"Attribute 4 name",
	"Attribute 4 value(s)",
	"Attribute 4 visible",
	"Attribute 4 global",
	"Meta: _wpcom_is_markdown",
	"Download 1 name",
	"Download 1 URL",
	"Download 2 name",
	"Download 2 URL",
}

// Row CSV 행 하나입니다. 키는 Header의 컬럼 이름이며, 값이 없는 컬럼은 빈 문자열입니다.
type Row map[string]string

// newRow 모든 컬럼이 빈 문자열로 채워진 행을 생성합니다.
func newRow() Row {
	row := make(Row, len(Header))
	for _, column := range Header {
		row[column] = ""
	}
	return row
}

// Record Header 순서대로 나열된 행의 값 목록을 반환합니다. (encoding/csv 입력용)
func (r Row) Record() []string {
	record := make([]string, 0, len(Header))
	for _, column := range Header {
		record = append(record, r[column])
	}
	return record
}
