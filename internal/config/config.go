// Package config 애플리케이션 설정의 로드와 유효성 검증을 담당합니다.
//
// 설정은 기본값 → JSON 파일 → 환경 변수 순으로 병합되며, 병합이 끝난 뒤
// 구조체 전체에 대한 정합성 검증이 수행됩니다.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "acsync"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultMaxRetries HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"

	// DefaultScrapeDelay 상품 페이지 요청 사이의 대기 시간 기본값
	DefaultScrapeDelay = "1s"

	// DefaultSitemapURL AC Schnitzer 스토어의 상품 사이트맵 URL 기본값
	DefaultSitemapURL = "https://tuning.ac-schnitzer.de/sitemapProducts.xml.gz"

	// DefaultCatalogPath 카탈로그 JSON 파일의 기본 경로
	DefaultCatalogPath = "data/catalog.json"

	// DefaultExportDir 내보내기 CSV 파일이 생성되는 기본 디렉터리
	DefaultExportDir = "exports"

	// DefaultListenPort 관리 API 서버의 기본 포트
	DefaultListenPort = 8180
)

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"http_retry.max_retries": DefaultMaxRetries,
		"http_retry.retry_delay": DefaultRetryDelay,
		"scrape.delay":           DefaultScrapeDelay,
		"sitemap.url":            DefaultSitemapURL,
		"catalog.path":           DefaultCatalogPath,
		"export.dir":             DefaultExportDir,
		"api.listen_port":        DefaultListenPort,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: ACSYNC_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: ACSYNC_HTTP_RETRY__MAX_RETRIES -> http_retry.max_retries
	if err := k.Load(env.Provider("ACSYNC_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "ACSYNC_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
