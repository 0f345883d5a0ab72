// Package api 동기화 상태 조회와 실행 요청, 내보내기 파일 다운로드를 제공하는
// 관리용 REST API 서버입니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/YudheerRM/ac-schnitzer/internal/config"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

const (
	// component API 서비스의 로깅용 컴포넌트 이름
	component = "api.service"

	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
	shutdownTimeout = 5 * time.Second

	// downloadKeyLength 자동 생성되는 다운로드 키의 길이
	downloadKeyLength = 32
)

// Service 관리 API 서버의 생명주기를 관리하는 서비스입니다.
type Service struct {
	appConfig *config.AppConfig

	// syncRunner 동기화 실행 요청과 상태 조회에 사용되는 인터페이스입니다.
	syncRunner contract.SyncRunner

	// exportDir 다운로드 엔드포인트가 파일을 제공하는 디렉터리입니다.
	exportDir string

	// downloadKey 다운로드 엔드포인트의 접근 키. 설정에 없으면 구동 시 무작위로 생성됩니다.
	downloadKey string

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, runner contract.SyncRunner) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if runner == nil {
		panic("SyncRunner는 필수입니다")
	}

	downloadKey := appConfig.API.DownloadKey
	if downloadKey == "" {
		downloadKey = random.String(downloadKeyLength)
		applog.WithComponentAndFields(component, applog.Fields{
			"download_key": downloadKey,
		}).Warn("다운로드 키가 설정되지 않아 무작위 키를 생성했습니다 (서버 재시작 시 변경됨)")
	}

	return &Service{
		appConfig: appConfig,

		syncRunner: runner,

		exportDir:   appConfig.Export.Dir,
		downloadKey: downloadKey,
	}
}

// Start API 서비스를 시작합니다.
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: API 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("API 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	// HTTP 서버 시작 (고루틴)
	go func() {
		address := fmt.Sprintf(":%d", s.appConfig.API.ListenPort)

		applog.WithComponentAndFields(component, applog.Fields{
			"address": address,
		}).Info("서비스 시작 완료: API 서버가 요청을 수신합니다")

		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.WithComponent(component).WithError(err).Error("API 서버가 비정상적으로 종료되었습니다")
		}
	}()

	// 종료 신호 대기
	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("종료 절차 진입: API 서비스 중지 시그널을 수신했습니다")

	// Graceful Shutdown (처리 중인 요청의 완료를 대기)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		applog.WithComponent(component).WithError(err).Error("API 서버 Graceful Shutdown에 실패했습니다")
	}

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// setupServer Echo 서버 인스턴스를 생성하고 미들웨어와 라우트를 설정합니다.
func (s *Service) setupServer() *echo.Echo {
	e := echo.New()

	e.Debug = s.appConfig.Debug
	e.HideBanner = true

	// 미들웨어 적용
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	s.registerRoutes(e)

	return e
}
