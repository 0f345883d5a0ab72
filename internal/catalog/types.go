// Package catalog 스크래핑된 상품 카탈로그의 도메인 모델과 영속화를 담당합니다.
//
// 카탈로그는 "브랜드 → (원본 URL → 상품 레코드)"의 2단계 맵 구조이며,
// 하나의 JSON 문서로 통째로 저장/로드됩니다. 저장소의 키는 스크래핑 당시의
// 원본 URL 그대로이며, URL 정규화 키는 매칭 시점에만 계산됩니다.
// (같은 상품이 서로 다른 URL 표기로 중복 수록될 수 있음은 알려진 제약입니다)
package catalog

import (
	"strings"
	"time"
)

// Price 상품 가격 정보입니다.
type Price struct {
	Amount   string `json:"amount"`            // 원본 가격 문자열 (예: "1.299,00" 또는 "1299.00")
	Currency string `json:"currency"`          // 통화 코드 (예: "EUR")
	Display  string `json:"display,omitempty"` // 페이지에 표시된 가격 문자열
}

// Availability 상품 재고/배송 상태 정보입니다.
type Availability struct {
	Message string   `json:"message,omitempty"` // 배송 안내 문구
	Status  string   `json:"status,omitempty"`  // 상태 코드 (예: "available")
	Classes []string `json:"classes,omitempty"` // 상태 표시 CSS 클래스 목록
	Badge   string   `json:"badge,omitempty"`   // 배송 뱃지 텍스트
}

// availableTokens 재고 있음으로 판정하는 상태 토큰 집합입니다.
var availableTokens = map[string]struct{}{
	"available": {},
	"instock":   {},
	"in-stock":  {},
}

// InStock 상태 코드와 CSS 클래스를 종합하여 재고 보유 여부를 판정합니다.
func (a Availability) InStock() bool {
	if _, ok := availableTokens[strings.ToLower(a.Status)]; ok {
		return true
	}
	for _, class := range a.Classes {
		if _, ok := availableTokens[strings.ToLower(class)]; ok {
			return true
		}
	}
	return false
}

// Document 상품에 첨부된 문서(설치 안내서, 인증서 등) 링크입니다.
type Document struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// InfoSection 상품 상세 페이지의 아코디언 섹션 하나입니다. (Overview, Description 등)
type InfoSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	HTML  string `json:"html"`
}

// Variation 상품의 옵션 축 하나입니다. (예: Size: [19", 20"])
type Variation struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Product 스크래핑된 상품 레코드입니다.
//
// Lastmod는 사이트맵에서 가져온 불투명한 타임스탬프 문자열로,
// ISO-8601 형식이므로 사전순 비교가 시간순 비교와 일치합니다.
type Product struct {
	Brand        string        `json:"brand"`
	URL          string        `json:"url"`
	Title        string        `json:"title"`
	PartNumber   string        `json:"part_number,omitempty"`
	SKU          string        `json:"sku,omitempty"`
	ProductID    string        `json:"product_id,omitempty"`
	Price        Price         `json:"price"`
	Availability Availability  `json:"availability"`
	CategoryPath []string      `json:"category_path,omitempty"`
	ImageURLs    []string      `json:"image_urls,omitempty"`
	Documents    []Document    `json:"documents,omitempty"`
	Information  []InfoSection `json:"product_information,omitempty"`
	Variations   []Variation   `json:"variations,omitempty"`
	ScrapedAt    string        `json:"scraped_at,omitempty"`
	Lastmod      string        `json:"lastmod,omitempty"`
}

// EffectiveSKU SKU 후보 필드 중 비어있지 않은 첫 번째 값을 반환합니다.
// 우선순위: sku → part_number → product_id
func (p *Product) EffectiveSKU() string {
	for _, candidate := range []string{p.SKU, p.PartNumber, p.ProductID} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

// Meta 카탈로그 문서의 파생 메타데이터입니다. 저장 시마다 재계산되며 수동 편집되지 않습니다.
type Meta struct {
	GeneratedAt   string         `json:"generated_at"`
	TotalProducts int            `json:"total_products"`
	BrandCounts   map[string]int `json:"brand_counts"`
}

// Catalog 영속화되는 카탈로그 문서 전체입니다.
type Catalog struct {
	Meta     Meta                           `json:"meta"`
	Products map[string]map[string]*Product `json:"products"`
}

// New 빈 카탈로그를 생성합니다.
func New() *Catalog {
	return &Catalog{
		Meta: Meta{
			BrandCounts: map[string]int{},
		},
		Products: map[string]map[string]*Product{},
	}
}

// Upsert 상품 레코드를 (브랜드, 원본 URL) 키로 삽입하거나 덮어씁니다.
func (c *Catalog) Upsert(p *Product) {
	if c.Products == nil {
		c.Products = map[string]map[string]*Product{}
	}
	brandProducts, ok := c.Products[p.Brand]
	if !ok {
		brandProducts = map[string]*Product{}
		c.Products[p.Brand] = brandProducts
	}
	brandProducts[p.URL] = p
}

// Get (브랜드, 원본 URL) 키로 상품 레코드를 조회합니다.
func (c *Catalog) Get(brand, url string) (*Product, bool) {
	brandProducts, ok := c.Products[brand]
	if !ok {
		return nil, false
	}
	p, ok := brandProducts[url]
	return p, ok
}

// TotalProducts 전체 상품 개수를 반환합니다.
func (c *Catalog) TotalProducts() int {
	total := 0
	for _, brandProducts := range c.Products {
		total += len(brandProducts)
	}
	return total
}

// RefreshMeta 파생 메타데이터(브랜드별/전체 개수, 생성 시각)를 재계산합니다.
// 저장 직전에 항상 호출되어야 합니다.
func (c *Catalog) RefreshMeta(now time.Time) {
	brandCounts := make(map[string]int, len(c.Products))
	total := 0
	for brand, brandProducts := range c.Products {
		brandCounts[brand] = len(brandProducts)
		total += len(brandProducts)
	}

	c.Meta.GeneratedAt = now.UTC().Format(time.RFC3339)
	c.Meta.TotalProducts = total
	c.Meta.BrandCounts = brandCounts
}
