package config

import (
	"fmt"
	"time"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	"github.com/YudheerRM/ac-schnitzer/pkg/cronx"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	HTTPRetry HTTPRetryConfig `json:"http_retry"`
	Scrape    ScrapeConfig    `json:"scrape"`
	Sitemap   SitemapConfig   `json:"sitemap"`
	Catalog   CatalogConfig   `json:"catalog"`
	Export    ExportConfig    `json:"export"`
	Notify    NotifyConfig    `json:"notify"`
	API       APIConfig       `json:"api"`
	Scheduler SchedulerConfig `json:"scheduler"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}
	if err := c.Scrape.validate(); err != nil {
		return err
	}
	if err := checkStruct(validate, c.Sitemap, "Sitemap"); err != nil {
		return err
	}
	if err := checkStruct(validate, c.Catalog, "Catalog"); err != nil {
		return err
	}
	if err := c.Export.validate(); err != nil {
		return err
	}
	if err := c.Notify.validate(); err != nil {
		return err
	}
	if err := checkStruct(validate, c.API, "API"); err != nil {
		return err
	}
	if err := c.Scheduler.validate(); err != nil {
		return err
	}
	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}

	// 다운로드 키 미설정 경고 (매 구동마다 무작위 키가 생성되어 외부 연동이 번거로워짐)
	if c.API.DownloadKey == "" {
		warnings = append(warnings, "다운로드 키(download_key)가 설정되지 않아 서버 구동 시마다 무작위 키가 생성됩니다")
	}

	return warnings
}

// HTTPRetryConfig HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries"`
	RetryDelay string `json:"retry_delay"`
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: '%d'", c.MaxRetries))
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	return nil
}

// RetryDelayDuration 검증이 끝난 재시도 대기 시간을 time.Duration으로 반환합니다.
func (c *HTTPRetryConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// ScrapeConfig 상품 페이지 스크래핑의 요청 간격과 User-Agent를 정의하는 설정 구조체
type ScrapeConfig struct {
	Delay     string `json:"delay"`
	UserAgent string `json:"user_agent"`
}

func (c *ScrapeConfig) validate() error {
	if _, err := time.ParseDuration(c.Delay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("스크래핑 요청 간격(delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.Delay))
	}
	return nil
}

// DelayDuration 검증이 끝난 스크래핑 요청 간격을 time.Duration으로 반환합니다.
func (c *ScrapeConfig) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Delay)
	return d
}

// SitemapConfig 상품 사이트맵의 위치를 정의하는 설정 구조체
type SitemapConfig struct {
	URL string `json:"url" validate:"required,url"`
}

// CatalogConfig 카탈로그 JSON 파일의 위치를 정의하는 설정 구조체
type CatalogConfig struct {
	Path string `json:"path" validate:"required"`
}

// ExportConfig WooCommerce CSV 내보내기 동작을 정의하는 설정 구조체
type ExportConfig struct {
	Dir          string   `json:"dir"`
	BatchSize    int      `json:"batch_size"`
	PriceFormula string   `json:"price_formula"`
	Brands       []string `json:"brands"`
}

func (c *ExportConfig) validate() error {
	if c.BatchSize < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("내보내기 배치 크기(batch_size)는 0 이상이어야 합니다: '%d'", c.BatchSize))
	}

	// 가격 변환 수식은 구동 시점에 시험 평가하여 실행 중의 수식 오류를 예방한다.
	if c.PriceFormula != "" {
		if _, err := export.EvaluateFormula(c.PriceFormula, 100); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("가격 변환 수식(price_formula)이 올바르지 않습니다: '%s'", c.PriceFormula))
		}
	}
	return nil
}

// NotifyConfig 동기화 결과 알림 채널을 정의하는 설정 구조체
type NotifyConfig struct {
	Telegram *TelegramConfig `json:"telegram"`
}

func (c *NotifyConfig) validate() error {
	if c.Telegram == nil {
		return nil
	}
	return checkStruct(validate, c.Telegram, "Telegram Notifier")
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID 정보를 담는 설정 구조체
type TelegramConfig struct {
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// APIConfig 관리 REST API 서버 설정 구조체
type APIConfig struct {
	ListenPort int `json:"listen_port" validate:"min=1,max=65535"`

	// DownloadKey CSV 다운로드 엔드포인트의 접근 키. 비어있으면 구동 시 무작위로 생성됩니다.
	DownloadKey string `json:"download_key"`
}

// SchedulerConfig 주기적 동기화 실행 스케줄을 정의하는 설정 구조체
type SchedulerConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *SchedulerConfig) validate() error {
	if !c.Runnable {
		return nil
	}
	if err := cronx.Validate(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("스케줄러(time_spec) 설정이 유효하지 않습니다: '%s'", c.TimeSpec))
	}
	return nil
}
