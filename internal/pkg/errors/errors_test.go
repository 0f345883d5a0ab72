package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("성공: 타입과 메시지를 가진 에러 생성", func(t *testing.T) {
		// When
		err := New(NotFound, "카탈로그를 찾을 수 없습니다")

		// Then
		require.Error(t, err)
		assert.Equal(t, "[NotFound] 카탈로그를 찾을 수 없습니다", err.Error())

		var appErr *AppError
		require.True(t, As(err, &appErr))
		assert.Equal(t, NotFound, appErr.Type())
		assert.NotEmpty(t, appErr.Stack(), "에러 생성 시점의 스택이 수집되어야 합니다")
	})

	t.Run("성공: Newf 포맷 문자열 적용", func(t *testing.T) {
		err := Newf(InvalidInput, "잘못된 배치 크기: %d", -1)

		assert.Equal(t, "[InvalidInput] 잘못된 배치 크기: -1", err.Error())
	})
}

func TestWrap(t *testing.T) {
	t.Run("성공: 원인 에러를 포함한 에러 체인 생성", func(t *testing.T) {
		// Given
		cause := stderrors.New("connection refused")

		// When
		err := Wrap(cause, System, "사이트맵 다운로드 실패")

		// Then
		require.Error(t, err)
		assert.Equal(t, "[System] 사이트맵 다운로드 실패: connection refused", err.Error())
		assert.Equal(t, cause, RootCause(err))
	})

	t.Run("성공: nil 에러 래핑 시 nil 반환", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, System, "무시됨"))
		assert.NoError(t, Wrapf(nil, System, "무시됨 %d", 1))
	})
}

func TestIs(t *testing.T) {
	t.Run("성공: 에러 체인 내의 모든 타입 탐지", func(t *testing.T) {
		// Given
		err := Wrap(New(ExecutionFailed, "스크래핑 실패"), System, "동기화 실행 실패")

		// Then
		assert.True(t, Is(err, System))
		assert.True(t, Is(err, ExecutionFailed))
		assert.False(t, Is(err, NotFound))
	})

	t.Run("성공: nil 에러는 어떤 타입에도 해당하지 않음", func(t *testing.T) {
		assert.False(t, Is(nil, System))
	})

	t.Run("성공: 표준 에러는 AppError 타입으로 분류되지 않음", func(t *testing.T) {
		assert.False(t, Is(stderrors.New("plain"), Unknown))
	})
}

func TestRootCause(t *testing.T) {
	t.Run("성공: 다중 래핑된 에러의 근본 원인 반환", func(t *testing.T) {
		// Given
		root := stderrors.New("EOF")
		err := Wrap(Wrap(root, ParsingFailed, "XML 파싱 실패"), System, "사이트맵 처리 실패")

		// Then
		assert.Equal(t, root, RootCause(err))
	})

	t.Run("성공: nil 입력 시 nil 반환", func(t *testing.T) {
		assert.Nil(t, RootCause(nil))
	})
}

func TestAppError_Format(t *testing.T) {
	t.Run("성공: %+v 출력에 스택 트레이스와 원인 포함", func(t *testing.T) {
		// Given
		err := Wrap(stderrors.New("disk full"), System, "카탈로그 저장 실패")

		// When
		formatted := fmt.Sprintf("%+v", err)

		// Then
		assert.Contains(t, formatted, "[System] 카탈로그 저장 실패")
		assert.Contains(t, formatted, "Stack trace:")
		assert.Contains(t, formatted, "Caused by:")
		assert.Contains(t, formatted, "disk full")
	})

	t.Run("성공: %q 출력은 따옴표로 감싼 메시지", func(t *testing.T) {
		err := New(Timeout, "요청 시간 초과")

		assert.Equal(t, `"[Timeout] 요청 시간 초과"`, fmt.Sprintf("%q", err))
	})
}

func TestErrorType_String(t *testing.T) {
	t.Run("성공: 정의된 모든 타입의 문자열 표현", func(t *testing.T) {
		cases := map[ErrorType]string{
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

		for errType, want := range cases {
			assert.Equal(t, want, errType.String())
		}
	})

	t.Run("성공: 정의되지 않은 타입은 Unknown으로 표현", func(t *testing.T) {
		assert.Equal(t, "Unknown", ErrorType(999).String())
	})
}
