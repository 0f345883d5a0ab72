package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/YudheerRM/ac-schnitzer/internal/pkg/version"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// registerRoutes API 서비스의 전체 라우트를 등록합니다.
//
//   - 시스템 엔드포인트: 서비스 상태 확인(/healthz) 및 버전 정보(/version) (인증 불필요)
//   - 동기화 엔드포인트: 상태 조회(GET /api/v1/status), 실행 요청(POST /api/v1/runs)
//   - 다운로드 엔드포인트: 내보내기 CSV 파일 제공(GET /download/:key/:filename)
func (s *Service) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.healthCheckHandler)
	e.GET("/version", s.versionHandler)

	v1 := e.Group("/api/v1")
	v1.GET("/status", s.statusHandler)
	v1.POST("/runs", s.triggerRunHandler)

	e.GET("/download/:key/:filename", s.downloadHandler)
}

// healthCheckHandler 서비스가 정상 동작 중인지 확인하는 Health Check 엔드포인트입니다.
func (s *Service) healthCheckHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "online"})
}

// versionHandler 빌드 버전 정보를 반환합니다.
func (s *Service) versionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, version.Get())
}

// statusHandler 동기화 작업 슬롯의 현재 상태를 반환합니다.
func (s *Service) statusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.syncRunner.Status())
}

// triggerRunHandler 동기화 작업의 비동기 실행을 요청합니다.
// 작업 슬롯이 이미 사용 중이면 409 Conflict를 반환합니다.
func (s *Service) triggerRunHandler(c echo.Context) error {
	if err := s.syncRunner.TriggerSync(); err != nil {
		if errors.Is(err, contract.ErrSyncAlreadyRunning) {
			return c.JSON(http.StatusConflict, map[string]string{
				"message": "동기화 작업이 이미 실행 중입니다",
			})
		}
		return err
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "동기화 작업이 시작되었습니다",
	})
}

// downloadHandler 내보내기 디렉터리의 CSV 파일을 제공합니다.
// 접근 키가 일치하지 않으면 403 Forbidden을 반환합니다.
func (s *Service) downloadHandler(c echo.Context) error {
	if c.Param("key") != s.downloadKey {
		applog.WithComponentAndFields(component, applog.Fields{
			"remote_ip": c.RealIP(),
		}).Warn("잘못된 다운로드 키로 파일 접근이 시도되었습니다")

		return c.JSON(http.StatusForbidden, map[string]string{
			"message": "다운로드 키가 올바르지 않습니다",
		})
	}

	// 경로 조작(Path Traversal) 방지를 위해 파일명만 추출하여 사용한다.
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(s.exportDir, filename)

	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"message": "요청한 파일을 찾을 수 없습니다",
		})
	}

	return c.Attachment(path, filename)
}
