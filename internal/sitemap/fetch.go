package sitemap

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

// component 사이트맵 로깅용 컴포넌트 이름
const component = "sitemap"

// gzipMagic gzip 압축 스트림의 시작 2바이트입니다.
var gzipMagic = []byte{0x1f, 0x8b}

// Fetcher 사이트맵 다운로드에 필요한 최소한의 HTTP 클라이언트 인터페이스입니다.
type Fetcher interface {
	Get(url string) (*http.Response, error)
}

// Fetch 사이트맵을 다운로드하고 해석하여 인덱스를 생성합니다.
// 사이트맵은 보통 gzip으로 압축 배포되므로, 압축 여부를 감지하여 자동으로 해제합니다.
func Fetch(fetcher Fetcher, url string) (*Index, error) {
	document, err := download(fetcher, url)
	if err != nil {
		return nil, err
	}

	return Parse(document)
}

// download 사이트맵 문서를 다운로드하여 압축이 해제된 XML 바이트를 반환합니다.
func download(fetcher Fetcher, url string) ([]byte, error) {
	resp, err := fetcher.Get(url)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("사이트맵(%s) 다운로드 중 에러가 발생했습니다", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Newf(apperrors.ExecutionFailed, "사이트맵(%s) 다운로드가 실패했습니다. 상태 코드: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("사이트맵(%s) 응답 본문을 읽을 수 없습니다", url))
	}

	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}

	gzReader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "사이트맵 gzip 스트림을 열 수 없습니다")
	}
	defer gzReader.Close()

	decompressed, err := io.ReadAll(gzReader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "사이트맵 gzip 압축 해제 중 에러가 발생했습니다")
	}

	return decompressed, nil
}
