package export

import (
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// component 내보내기 로깅용 컴포넌트 이름
const component = "export"

// Options 카탈로그 내보내기 실행 옵션입니다.
type Options struct {
	// OutputPath 출력 CSV 파일 경로. 배치가 활성화되면 배치 번호가 붙습니다.
	OutputPath string

	// Brands 내보낼 브랜드 목록. 비어있으면 전체 브랜드가 내보내집니다.
	Brands []string

	// BatchSize 배치당 최대 행 수. 0 이하면 배치 분할이 비활성화됩니다.
	BatchSize int

	// PriceFormula 가격 조정 수식. 비어있으면 가격은 정규화만 됩니다.
	PriceFormula string
}

// Result 내보내기 실행 결과입니다.
type Result struct {
	Products int
	Rows     int
	Files    []string
}

// Run 카탈로그를 WooCommerce CSV로 내보냅니다.
//
// 출력이 실행마다 동일하도록 브랜드와 URL을 정렬하여 순회합니다.
// 필터에 해당하는 상품이 하나도 없으면 에러를 반환합니다.
func Run(c *catalog.Catalog, opts Options) (*Result, error) {
	products := collectProducts(c, opts.Brands)
	if len(products) == 0 {
		return nil, apperrors.New(apperrors.NotFound, "내보낼 상품이 없습니다. 브랜드 필터를 확인하세요")
	}

	writer := NewBatchWriter(opts.OutputPath, opts.BatchSize)

	result := &Result{Products: len(products)}
	for _, p := range products {
		rows := BuildRows(p, opts.PriceFormula)
		result.Rows += len(rows)

		if err := writer.Append(rows); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	result.Files = writer.Files()

	applog.WithComponentAndFields(component, applog.Fields{
		"products": result.Products,
		"rows":     result.Rows,
		"files":    len(result.Files),
	}).Info("카탈로그 내보내기 완료")

	return result, nil
}

// collectProducts 브랜드 필터를 적용하여 내보낼 상품을 결정적 순서로 수집합니다.
func collectProducts(c *catalog.Catalog, brands []string) []*catalog.Product {
	brandFilter := map[string]struct{}{}
	for _, brand := range brands {
		brandFilter[strings.ToLower(strings.TrimSpace(brand))] = struct{}{}
	}

	sortedBrands := make([]string, 0, len(c.Products))
	for brand := range c.Products {
		if len(brandFilter) > 0 {
			if _, ok := brandFilter[strings.ToLower(brand)]; !ok {
				continue
			}
		}
		sortedBrands = append(sortedBrands, brand)
	}
	sort.Strings(sortedBrands)

	var products []*catalog.Product
	for _, brand := range sortedBrands {
		urls := make([]string, 0, len(c.Products[brand]))
		for url := range c.Products[brand] {
			urls = append(urls, url)
		}
		sort.Strings(urls)

		for _, url := range urls {
			products = append(products, c.Products[brand][url])
		}
	}
	return products
}

// DefaultOutputName 브랜드 필터에 어울리는 기본 출력 파일 이름을 생성합니다.
// 예: [] → "woocommerce_products.csv", ["bmw","mini"] → "woocommerce_bmw_mini.csv"
func DefaultOutputName(brands []string) string {
	if len(brands) == 0 {
		return "woocommerce_products.csv"
	}

	slugs := make([]string, 0, len(brands))
	for _, brand := range brands {
		if slug := strcase.ToSnake(strings.TrimSpace(brand)); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	if len(slugs) == 0 {
		return "woocommerce_products.csv"
	}
	return "woocommerce_" + strings.Join(slugs, "_") + ".csv"
}
