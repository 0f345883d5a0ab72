package errors

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 네트워크 등)
	System

	// Forbidden 권한 없음 (다운로드 키 불일치 등)
	Forbidden

	// InvalidInput 잘못된 입력값 (유효성 검사 실패)
	InvalidInput

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// ExecutionFailed 비즈니스 로직 수행 실패 (스크래핑 실패, 외부 요청 오류 등)
	ExecutionFailed

	// ParsingFailed 데이터 파싱 또는 형식 변환 실패 (사이트맵 XML, 카탈로그 JSON 등)
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout
)

// errorTypeNames ErrorType의 문자열 표현 테이블입니다.
var errorTypeNames = map[ErrorType]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
}

// String fmt.Stringer 인터페이스를 구현합니다.
func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}
