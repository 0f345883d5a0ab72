package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// priceFromJSONLD 페이지에 임베딩된 JSON-LD 문서에서 가격 정보를 추출합니다.
//
// 마이크로데이터 메타 태그가 없는 일부 상품 페이지를 위한 대체 수단입니다.
// Product 타입 문서의 offers.price / offers.priceCurrency를 찾으며,
// offers가 배열인 경우 첫 번째 항목을 사용합니다.
func priceFromJSONLD(doc *goquery.Document) (amount, currency string, ok bool) {
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		raw := strings.TrimSpace(script.Text())
		if raw == "" || !gjson.Valid(raw) {
			return true
		}

		document := gjson.Parse(raw)
		if !strings.EqualFold(document.Get("@type").String(), "Product") {
			return true
		}

		offers := document.Get("offers")
		if offers.IsArray() {
			offers = offers.Get("0")
		}

		price := offers.Get("price")
		if !price.Exists() || strings.TrimSpace(price.String()) == "" {
			return true
		}

		amount = strings.TrimSpace(price.String())
		currency = strings.TrimSpace(offers.Get("priceCurrency").String())
		ok = true
		return false
	})

	return amount, currency, ok
}
