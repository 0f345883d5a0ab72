// Package sync 동기화 파이프라인의 실행 슬롯을 관리하는 서비스입니다.
//
// 동기화는 카탈로그 파일을 독점 소유하므로 한 번에 하나의 실행만 허용됩니다.
// 스케줄러와 API는 이 서비스를 통해 실행을 요청하며, 두 경로의 요청은
// 단일 작업 슬롯으로 직렬화됩니다.
package sync

import (
	"context"
	stdsync "sync"

	"github.com/YudheerRM/ac-schnitzer/internal/notify"
	"github.com/YudheerRM/ac-schnitzer/internal/pkg/mark"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
	"github.com/YudheerRM/ac-schnitzer/internal/update"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// component Sync 서비스의 로깅용 컴포넌트 이름
const component = "sync.service"

// notifyTitle 알림 메시지의 제목
const notifyTitle = "카탈로그 동기화"

// Service 동기화 파이프라인의 단일 작업 슬롯을 관리하는 서비스입니다.
type Service struct {
	pipeline *update.Pipeline
	notifier notify.Notifier

	mu      stdsync.Mutex
	running bool
	status  contract.SyncStatus

	// runCtx 실행 중인 동기화 작업이 사용하는 컨텍스트. 서비스 종료 시 취소됩니다.
	runCtx    context.Context
	runCancel context.CancelFunc

	runWG stdsync.WaitGroup
}

// NewService 새로운 Sync 서비스 인스턴스를 생성합니다.
func NewService(pipeline *update.Pipeline, notifier notify.Notifier) *Service {
	if pipeline == nil {
		panic("Pipeline은 필수입니다")
	}
	if notifier == nil {
		notifier = notify.NewNop()
	}

	runCtx, runCancel := context.WithCancel(context.Background())

	return &Service{
		pipeline: pipeline,
		notifier: notifier,

		status: contract.SyncStatus{State: contract.SyncStateIdle},

		runCtx:    runCtx,
		runCancel: runCancel,
	}
}

// Start 서비스를 시작하고 종료 신호 감시를 등록합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *stdsync.WaitGroup) error {
	applog.WithComponent(component).Info("서비스 시작 완료: Sync 서비스가 준비되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 동기화 작업을 취소하고 완료될 때까지 대기합니다.
func (s *Service) Stop() {
	applog.WithComponent(component).Info("종료 절차 진입: Sync 서비스 중지 시그널을 수신했습니다")

	s.runCancel()
	s.runWG.Wait()

	applog.WithComponent(component).Info("Sync 서비스 종료 완료: 실행 중인 작업이 모두 정리되었습니다")
}

// TriggerSync 동기화 작업을 비동기로 시작합니다.
// 작업 슬롯이 이미 사용 중이면 contract.ErrSyncAlreadyRunning을 반환합니다.
func (s *Service) TriggerSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return contract.ErrSyncAlreadyRunning
	}

	s.running = true
	s.status.State = contract.SyncStateRunning

	s.runWG.Add(1)
	go func() {
		defer s.runWG.Done()
		s.runOnce(s.runCtx)
	}()

	return nil
}

// RunSync 동기화 작업을 동기적으로 실행하고 완료까지 대기합니다.
// 단발성 실행(CLI 등)에 사용됩니다.
func (s *Service) RunSync(ctx context.Context) (*update.Summary, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, contract.ErrSyncAlreadyRunning
	}
	s.running = true
	s.status.State = contract.SyncStateRunning
	s.mu.Unlock()

	return s.run(ctx)
}

// Status 작업 슬롯의 현재 상태를 반환합니다.
func (s *Service) Status() contract.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.status
	status.ExportFiles = append([]string(nil), s.status.ExportFiles...)
	return status
}

// runOnce 동기화를 한 차례 실행하고 결과를 알림 채널로 발송합니다.
func (s *Service) runOnce(ctx context.Context) {
	summary, err := s.run(ctx)

	if err != nil {
		message := mark.Alert.String() + " 동기화 실행이 실패했습니다: " + err.Error()
		if notifyErr := s.notifier.NotifyWithTitle(notifyTitle, message); notifyErr != nil {
			applog.WithComponent(component).WithError(notifyErr).Warn("동기화 실패 알림 발송에 실패했습니다")
		}
		return
	}

	message := summary.String()
	if summary.Failed > 0 {
		message += mark.Alert.WithSpace()
	}
	if notifyErr := s.notifier.NotifyWithTitle(notifyTitle, message); notifyErr != nil {
		applog.WithComponent(component).WithError(notifyErr).Warn("동기화 결과 알림 발송에 실패했습니다")
	}
}

// run 파이프라인을 실행하고 상태를 갱신합니다. 호출 전 작업 슬롯이 확보되어 있어야 합니다.
func (s *Service) run(ctx context.Context) (*update.Summary, error) {
	summary, err := s.pipeline.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.status.State = contract.SyncStateIdle

	if err != nil {
		applog.WithComponent(component).WithError(err).Error("동기화 실행이 실패했습니다")

		s.status.LastError = err.Error()
		return nil, err
	}

	s.status.LastStartedAt = summary.StartedAt
	s.status.LastFinishedAt = summary.FinishedAt
	s.status.LastReport = summary.String()
	s.status.LastError = ""
	s.status.ExportFiles = append([]string(nil), summary.ExportFiles...)

	return summary, nil
}
