package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/pkg/strutil"
)

// component 스크래퍼 로깅용 컴포넌트 이름
const component = "scraper"

// ParseProduct 상품 상세 페이지의 HTML 문서를 카탈로그 레코드로 해석합니다.
//
// 페이지의 일부 요소가 없더라도 해석은 실패하지 않으며, 해당 필드만 비워집니다.
// (상품마다 갖추고 있는 정보의 범위가 다르므로, 누락은 에러가 아닌 정상 상태입니다)
func ParseProduct(doc *goquery.Document, pageURL, brand string) *catalog.Product {
	p := &catalog.Product{
		Brand:     brand,
		URL:       pageURL,
		Title:     strings.TrimSpace(doc.Find(".product--title").First().Text()),
		ScrapedAt: time.Now().UTC().Format(time.RFC3339),
	}

	p.PartNumber = strings.TrimSpace(doc.Find("[itemprop='tail_number']").First().Text())
	p.SKU = strings.TrimSpace(doc.Find("[itemprop='sku']").First().Text())
	p.ProductID, _ = doc.Find("meta[itemprop='productID']").First().Attr("content")

	p.Price = parsePrice(doc)
	p.Availability = parseAvailability(doc)
	p.CategoryPath = deriveCategoryPath(pageURL)
	p.Information = parseInformation(doc)
	p.ImageURLs = parseImages(doc)
	p.Documents = parseDocuments(doc, pageURL)
	p.Variations = parseVariations(doc)

	return p
}

// parsePrice 마이크로데이터 메타 태그와 가격 표시 블록에서 가격 정보를 추출합니다.
// 메타 태그가 없는 페이지는 임베디드 JSON-LD 문서의 가격으로 대체합니다.
func parsePrice(doc *goquery.Document) catalog.Price {
	price := catalog.Price{}

	if amount, ok := doc.Find("meta[itemprop='price']").First().Attr("content"); ok {
		price.Amount = strings.TrimSpace(amount)
	}
	if currency, ok := doc.Find("meta[itemprop='priceCurrency']").First().Attr("content"); ok {
		price.Currency = strings.TrimSpace(currency)
	}
	price.Display = joinedText(doc.Find(".product--price.price--default").First())

	if price.Amount == "" {
		if amount, currency, ok := priceFromJSONLD(doc); ok {
			price.Amount = amount
			if price.Currency == "" {
				price.Currency = currency
			}
		}
	}

	return price
}

// parseAvailability 배송 안내 블록에서 재고/배송 상태를 추출합니다.
// 상태 코드는 "delivery--text-" 접두사를 가진 CSS 클래스에서 유도됩니다.
func parseAvailability(doc *goquery.Document) catalog.Availability {
	availability := catalog.Availability{}

	deliveryText := doc.Find(".product--delivery .delivery--text").First()
	if deliveryText.Length() > 0 {
		availability.Message = joinedText(deliveryText)

		if classAttr, ok := deliveryText.Attr("class"); ok {
			availability.Classes = strings.Fields(classAttr)
			for _, cssClass := range availability.Classes {
				if strings.HasPrefix(cssClass, "delivery--text-") {
					availability.Status = strings.TrimPrefix(cssClass, "delivery--text-")
					break
				}
			}
		}
	}

	availability.Badge = strings.TrimSpace(doc.Find(".delivery-sign").First().Text())

	return availability
}

// parseInformation 상품 상세의 아코디언 섹션(Overview, Description 등)을 순서대로 추출합니다.
func parseInformation(doc *goquery.Document) []catalog.InfoSection {
	var sections []catalog.InfoSection

	doc.Find(".accordion__container").Each(func(_ int, container *goquery.Selection) {
		panel := container.Find(".accordion__panel").First()
		if panel.Length() == 0 {
			return
		}

		sectionHTML, err := panel.Html()
		if err != nil {
			sectionHTML = ""
		}

		sections = append(sections, catalog.InfoSection{
			Title: strutil.NormalizeSpaces(container.Find(".accordion__btn").First().Text()),
			Text:  lineText(panel),
			HTML:  strings.TrimSpace(sectionHTML),
		})
	})

	return sections
}

// parseImages 이미지 갤러리에서 대표 URL을 추출합니다.
// 해상도 우선순위는 original > large > small > img src이며, 갤러리가 비어있으면
// OpenGraph 이미지로 대체합니다.
func parseImages(doc *goquery.Document) []string {
	var imageURLs []string
	seen := map[string]struct{}{}

	doc.Find(".image--element").Each(func(_ int, wrapper *goquery.Selection) {
		primary := ""
		for _, attr := range []string{"data-img-original", "data-img-large", "data-img-small"} {
			if value, ok := wrapper.Attr(attr); ok && strings.TrimSpace(value) != "" {
				primary = strings.TrimSpace(value)
				break
			}
		}
		if primary == "" {
			if src, ok := wrapper.Find("img").First().Attr("src"); ok {
				primary = strings.TrimSpace(src)
			}
		}

		if primary == "" {
			return
		}
		if _, ok := seen[primary]; ok {
			return
		}
		seen[primary] = struct{}{}
		imageURLs = append(imageURLs, primary)
	})

	if len(imageURLs) == 0 {
		if ogImage, ok := doc.Find("meta[property='og:image']").First().Attr("content"); ok && strings.TrimSpace(ogImage) != "" {
			imageURLs = append(imageURLs, strings.TrimSpace(ogImage))
		}
	}

	return imageURLs
}

// parseDocuments 멀티미디어 블록의 첨부 문서(설치 안내서 등) 링크를 추출합니다.
// 상대 경로 링크는 상품 페이지 URL을 기준으로 절대 경로로 변환됩니다.
func parseDocuments(doc *goquery.Document, pageURL string) []catalog.Document {
	var documents []catalog.Document
	seen := map[string]struct{}{}

	doc.Find(".ac--multimedia [data-media-url]").Each(func(_ int, block *goquery.Selection) {
		mediaURL, _ := block.Attr("data-media-url")
		mediaURL = strings.TrimSpace(mediaURL)
		if mediaURL == "" {
			return
		}
		if _, ok := seen[mediaURL]; ok {
			return
		}
		seen[mediaURL] = struct{}{}
		documents = append(documents, catalog.Document{
			URL:   mediaURL,
			Label: strings.TrimSpace(block.Text()),
		})
	})

	base, baseErr := url.Parse(pageURL)

	doc.Find(".ac--multimedia a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		resolved := href
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				resolved = base.ResolveReference(ref).String()
			}
		}

		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		documents = append(documents, catalog.Document{
			URL:   resolved,
			Label: strings.TrimSpace(link.Text()),
		})
	})

	return documents
}

// parseVariations 옵션 구성기(configurator)에서 옵션 축과 선택지를 추출합니다.
func parseVariations(doc *goquery.Document) []catalog.Variation {
	var variations []catalog.Variation

	configurator := doc.Find(".configurator--variant").First()
	if configurator.Length() == 0 {
		return nil
	}

	configurator.Find(".variant--group").Each(func(_ int, group *goquery.Selection) {
		name := strings.TrimSpace(group.Find(".variant--name").First().Text())
		if name == "" {
			return
		}

		var options []string
		group.Find(".variant--option label.radio-label").Each(func(_ int, label *goquery.Selection) {
			if option := strings.TrimSpace(label.Text()); option != "" {
				options = append(options, option)
			}
		})

		if len(options) > 0 {
			variations = append(variations, catalog.Variation{
				Name:    name,
				Options: options,
			})
		}
	})

	return variations
}

// upperTokens 슬러그를 제목으로 변환할 때 항상 대문자로 유지하는 토큰 집합입니다.
var upperTokens = map[string]struct{}{
	"BMW":  {},
	"MINI": {},
	"AC":   {},
	"GR":   {},
}

// alphaNumericToken 모델명 형태(문자+숫자 조합, 예: m4, x5m)의 토큰을 판별하는 패턴입니다.
var alphaNumericToken = regexp.MustCompile(`^[A-Za-z]+\d+$`)

// slugToTitle URL 슬러그를 사람이 읽을 수 있는 제목으로 변환합니다.
// 예: "bmw-m4-coupe" → "BMW M4 Coupe"
func slugToTitle(slug string) string {
	processed := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if processed == "" {
		return ""
	}

	var tokens []string
	for _, token := range strings.Fields(processed) {
		upperToken := strings.ToUpper(token)
		if _, ok := upperTokens[upperToken]; ok {
			tokens = append(tokens, upperToken)
			continue
		}
		if token == upperToken || isDigits(token) || alphaNumericToken.MatchString(token) {
			tokens = append(tokens, upperToken)
			continue
		}
		tokens = append(tokens, strings.ToUpper(token[:1])+strings.ToLower(token[1:]))
	}
	return strings.Join(tokens, " ")
}

// deriveCategoryPath 상품 URL의 경로 세그먼트로부터 카테고리 경로를 유도합니다.
// 언어 세그먼트("en")는 건너뛰고, 숫자 세그먼트(상품 번호)가 나오면 중단합니다.
func deriveCategoryPath(productURL string) []string {
	parsed, err := url.Parse(productURL)
	if err != nil {
		return nil
	}

	var categoryPath []string
	for _, segment := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		if segment == "" || segment == "en" {
			continue
		}
		if isDigits(segment) {
			break
		}
		if name := slugToTitle(segment); name != "" {
			categoryPath = append(categoryPath, name)
		}
	}
	return categoryPath
}

// isDigits 문자열이 숫자로만 구성되어 있는지 판별합니다.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// joinedText 선택된 요소의 텍스트를 공백 하나로 정규화하여 반환합니다.
func joinedText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// lineText 선택된 요소의 텍스트 노드를 줄 단위로 이어붙여 반환합니다.
// HTML 블록 구조가 사라져도 문단 경계가 보존되도록 텍스트 노드마다 줄을 나눕니다.
func lineText(sel *goquery.Selection) string {
	var lines []string

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if text := strutil.NormalizeSpaces(node.Data); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, node := range sel.Nodes {
		walk(node)
	}

	return strings.Join(lines, "\n")
}
