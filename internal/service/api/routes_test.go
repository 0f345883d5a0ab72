package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YudheerRM/ac-schnitzer/internal/config"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
)

// mockSyncRunner 테스트용 SyncRunner 목 구현체입니다.
type mockSyncRunner struct {
	triggerErr error
	status     contract.SyncStatus
}

func (m *mockSyncRunner) TriggerSync() error { return m.triggerErr }
func (m *mockSyncRunner) Status() contract.SyncStatus { return m.status }

// newTestService 테스트용 API 서비스와 Echo 인스턴스를 조립합니다.
func newTestService(t *testing.T, runner contract.SyncRunner) (*Service, *echo.Echo) {
	t.Helper()

	appConfig := &config.AppConfig{
		Export: config.ExportConfig{Dir: t.TempDir()},
		API:    config.APIConfig{ListenPort: 8180, DownloadKey: "test-key"},
	}

	service := NewService(appConfig, runner)
	return service, service.setupServer()
}

func TestHealthCheckHandler(t *testing.T) {
	t.Run("성공: 서비스 상태를 반환한다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{})

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		// Then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "online")
	})
}

func TestStatusHandler(t *testing.T) {
	t.Run("성공: 동기화 상태를 JSON으로 반환한다", func(t *testing.T) {
		// Given
		runner := &mockSyncRunner{status: contract.SyncStatus{
			State:      contract.SyncStateIdle,
			LastReport: "사이트맵 100건, 계획 3건",
		}}
		_, e := newTestService(t, runner)

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

		// Then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"state":"idle"`)
		assert.Contains(t, recorder.Body.String(), "사이트맵 100건")
	})
}

func TestTriggerRunHandler(t *testing.T) {
	t.Run("성공: 동기화 실행 요청이 수락된다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{})

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

		// Then
		assert.Equal(t, http.StatusAccepted, recorder.Code)
	})

	t.Run("실패: 이미 실행 중이면 409를 반환한다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{triggerErr: contract.ErrSyncAlreadyRunning})

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

		// Then
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestDownloadHandler(t *testing.T) {
	t.Run("성공: 유효한 키로 파일을 다운로드한다", func(t *testing.T) {
		// Given
		service, e := newTestService(t, &mockSyncRunner{})
		require.NoError(t, os.WriteFile(
			filepath.Join(service.exportDir, "woocommerce_products.csv"), []byte("ID,Type\n"), 0o644))

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/download/test-key/woocommerce_products.csv", nil))

		// Then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Header().Get(echo.HeaderContentDisposition), "woocommerce_products.csv")
		assert.Equal(t, "ID,Type\n", recorder.Body.String())
	})

	t.Run("실패: 잘못된 키는 403을 반환한다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{})

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/download/wrong-key/products.csv", nil))

		// Then
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("실패: 존재하지 않는 파일은 404를 반환한다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{})

		// When
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/download/test-key/missing.csv", nil))

		// Then
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("성공: 경로 조작 시도는 파일명으로 정규화된다", func(t *testing.T) {
		// Given
		_, e := newTestService(t, &mockSyncRunner{})

		// When: 상위 디렉터리 접근 시도
		recorder := httptest.NewRecorder()
		e.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/download/test-key/..%2F..%2Fetc%2Fpasswd", nil))

		// Then: 내보내기 디렉터리 밖의 파일은 제공되지 않는다
		assert.NotEqual(t, http.StatusOK, recorder.Code)
	})
}

func TestNewService(t *testing.T) {
	t.Run("성공: 다운로드 키가 없으면 무작위 키가 생성된다", func(t *testing.T) {
		// Given
		appConfig := &config.AppConfig{
			Export: config.ExportConfig{Dir: t.TempDir()},
			API:    config.APIConfig{ListenPort: 8180},
		}

		// When
		service := NewService(appConfig, &mockSyncRunner{})

		// Then
		assert.Len(t, service.downloadKey, downloadKeyLength)
	})

	t.Run("실패: AppConfig가 nil이면 패닉이 발생한다", func(t *testing.T) {
		assert.PanicsWithValue(t, "AppConfig는 필수입니다", func() {
			NewService(nil, &mockSyncRunner{})
		})
	})

	t.Run("실패: SyncRunner가 nil이면 패닉이 발생한다", func(t *testing.T) {
		assert.PanicsWithValue(t, "SyncRunner는 필수입니다", func() {
			NewService(&config.AppConfig{}, nil)
		})
	})
}
