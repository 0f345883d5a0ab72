package catalog

import (
	"fmt"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

// newErrPathResolutionFailed 카탈로그 파일 경로의 절대 경로 변환에 실패했을 때 반환하는 에러를 생성합니다.
func newErrPathResolutionFailed(err error, path string) error {
	return apperrors.Wrap(err, apperrors.Internal, fmt.Sprintf("저장소 초기화 실패: 절대 경로 변환 불가 (%s)", path))
}

// newErrDirectoryAccessFailed 카탈로그 디렉토리 생성 또는 접근에 실패했을 때 반환하는 에러를 생성합니다.
func newErrDirectoryAccessFailed(err error, dir string) error {
	return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("저장소 초기화 실패: 디렉토리 접근 불가 (%s)", dir))
}

// newErrCatalogReadFailed 카탈로그 파일 읽기에 실패했을 때 반환하는 에러를 생성합니다.
func newErrCatalogReadFailed(err error, path string) error {
	return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("카탈로그 조회 실패: 파일 읽기 오류 (%s)", path))
}

// newErrCatalogCorrupted 카탈로그 파일이 손상되어 해석할 수 없을 때 반환하는 에러를 생성합니다.
// 이 에러는 치명적이며, 호출자는 동기화 실행 전체를 중단해야 합니다.
func newErrCatalogCorrupted(err error, path string) error {
	return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("카탈로그 손상: JSON 문서를 해석할 수 없습니다 (%s)", path))
}

// newErrJSONMarshalFailed 카탈로그 직렬화에 실패했을 때 반환하는 에러를 생성합니다.
func newErrJSONMarshalFailed(err error) error {
	return apperrors.Wrap(err, apperrors.Internal, "카탈로그 저장 실패: JSON 직렬화 중 오류가 발생했습니다")
}

// newErrTempFileCreationFailed 임시 파일 생성에 실패했을 때 반환하는 에러를 생성합니다.
func newErrTempFileCreationFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "카탈로그 저장 실패: 임시 파일 생성 중 오류가 발생했습니다")
}

// newErrFileWriteFailed 파일 쓰기에 실패했을 때 반환하는 에러를 생성합니다.
func newErrFileWriteFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "카탈로그 저장 실패: 파일 쓰기 중 오류가 발생했습니다")
}

// newErrFileSyncFailed 디스크 동기화에 실패했을 때 반환하는 에러를 생성합니다.
func newErrFileSyncFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "카탈로그 저장 실패: 디스크 동기화 중 오류가 발생했습니다")
}

// newErrFileCloseFailed 파일 닫기에 실패했을 때 반환하는 에러를 생성합니다.
func newErrFileCloseFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "카탈로그 저장 실패: 파일 닫기 중 오류가 발생했습니다")
}

// newErrFileRenameFailed 파일 이름 변경에 실패했을 때 반환하는 에러를 생성합니다.
func newErrFileRenameFailed(err error) error {
	return apperrors.Wrap(err, apperrors.System, "카탈로그 저장 실패: 파일 이름 변경 중 오류가 발생했습니다")
}
