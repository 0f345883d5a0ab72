package export

import (
	"math/big"
	"strconv"
	"strings"

	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// NormalizePrice 원본 가격 문자열을 소수점 2자리의 표준 표기로 정규화합니다.
//
// 공백과 쉼표 소수점 표기("19,99")를 허용하며, 반올림은 half-up 방식입니다.
// 해석할 수 없는 값은 빈 문자열을 반환합니다. (가격 없는 상품은 정상 상태)
func NormalizePrice(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	rat, ok := new(big.Rat).SetString(cleaned)
	if !ok {
		return ""
	}

	// FloatString은 마지막 자리를 half-up으로 반올림합니다.
	return rat.FloatString(2)
}

// ApplyPriceFormula 정규화된 가격에 가격 조정 수식을 적용합니다.
//
// 수식은 가격을 나타내는 변수 x에 대한 산술식입니다. (예: "x * 1.2")
// 수식 해석이나 평가에 실패하면 행 전체를 실패시키지 않고 원래 가격으로 대체합니다.
func ApplyPriceFormula(price, formula string) string {
	if price == "" || strings.TrimSpace(formula) == "" {
		return price
	}

	x, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return price
	}

	result, err := EvaluateFormula(formula, x)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"formula": formula,
			"price":   price,
		}).WithError(err).Warn("가격 수식 평가 실패, 원래 가격을 사용합니다")
		return price
	}

	normalized := NormalizePrice(strconv.FormatFloat(result, 'f', -1, 64))
	if normalized == "" {
		return price
	}
	return normalized
}
