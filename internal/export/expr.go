package export

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

// EvaluateFormula 가격 조정 수식을 평가합니다.
//
// 지원하는 문법은 사칙연산(+ - * /), 괄호, 숫자 리터럴, 가격 변수(x 또는 price),
// 함수 min/max/round로 제한됩니다. 임의 코드 실행이 가능한 범용 평가기는
// 의도적으로 사용하지 않습니다.
func EvaluateFormula(formula string, x float64) (float64, error) {
	p := &formulaParser{input: formula, x: x}

	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, apperrors.Newf(apperrors.InvalidInput, "수식에 해석할 수 없는 문자가 남아있습니다: %q", p.input[p.pos:])
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, apperrors.New(apperrors.InvalidInput, "수식 평가 결과가 유효한 숫자가 아닙니다")
	}

	return result, nil
}

// formulaParser 재귀 하강 방식의 수식 해석기입니다.
type formulaParser struct {
	input string
	pos   int
	x     float64
}

func (p *formulaParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// parseExpr expr := term (('+' | '-') term)*
func (p *formulaParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm term := unary (('*' | '/') unary)*
func (p *formulaParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		p.skipSpaces()
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, apperrors.New(apperrors.InvalidInput, "수식에서 0으로 나눌 수 없습니다")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

// parseUnary unary := '-'? primary
func (p *formulaParser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.peek() == '-' {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parsePrimary()
}

// parsePrimary primary := number | variable | function '(' args ')' | '(' expr ')'
func (p *formulaParser) parsePrimary() (float64, error) {
	p.skipSpaces()

	if p.peek() == '(' {
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, apperrors.New(apperrors.InvalidInput, "수식의 괄호가 닫히지 않았습니다")
		}
		p.pos++
		return value, nil
	}

	if isIdentStart(p.peek()) {
		return p.parseIdent()
	}

	return p.parseNumber()
}

// parseIdent 변수(x, price) 또는 함수 호출(min, max, round)을 해석합니다.
func (p *formulaParser) parseIdent() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
		p.pos++
	}
	name := strings.ToLower(p.input[start:p.pos])

	switch name {
	case "x", "price":
		return p.x, nil
	case "min", "max", "round":
		args, err := p.parseArgs()
		if err != nil {
			return 0, err
		}
		return applyFunction(name, args)
	default:
		return 0, apperrors.Newf(apperrors.InvalidInput, "수식에서 알 수 없는 이름입니다: %q", name)
	}
}

// parseArgs '(' expr (',' expr)* ')'
func (p *formulaParser) parseArgs() ([]float64, error) {
	p.skipSpaces()
	if p.peek() != '(' {
		return nil, apperrors.New(apperrors.InvalidInput, "함수 호출에는 괄호가 필요합니다")
	}
	p.pos++

	var args []float64
	for {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, value)

		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, apperrors.New(apperrors.InvalidInput, "함수 인자 목록이 올바르지 않습니다")
		}
	}
}

// parseNumber 숫자 리터럴을 해석합니다.
func (p *formulaParser) parseNumber() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, apperrors.Newf(apperrors.InvalidInput, "수식의 %d번째 위치에서 숫자를 기대했습니다", start)
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.InvalidInput, "숫자 리터럴을 해석할 수 없습니다: %q", p.input[start:p.pos])
	}
	return value, nil
}

// applyFunction 허용된 함수를 인자에 적용합니다.
func applyFunction(name string, args []float64) (float64, error) {
	switch name {
	case "min":
		if len(args) < 1 {
			return 0, apperrors.New(apperrors.InvalidInput, "min 함수에는 1개 이상의 인자가 필요합니다")
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Min(result, arg)
		}
		return result, nil
	case "max":
		if len(args) < 1 {
			return 0, apperrors.New(apperrors.InvalidInput, "max 함수에는 1개 이상의 인자가 필요합니다")
		}
		result := args[0]
		for _, arg := range args[1:] {
			result = math.Max(result, arg)
		}
		return result, nil
	case "round":
		if len(args) != 1 {
			return 0, apperrors.New(apperrors.InvalidInput, "round 함수에는 정확히 1개의 인자가 필요합니다")
		}
		return math.Round(args[0]), nil
	default:
		return 0, apperrors.Newf(apperrors.InvalidInput, "수식에서 알 수 없는 함수입니다: %q", name)
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c))
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
