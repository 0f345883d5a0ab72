// Package scheduler 설정된 Cron 스케줄에 맞춰 동기화 실행을 요청하는 서비스입니다.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/YudheerRM/ac-schnitzer/internal/config"
	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
	"github.com/YudheerRM/ac-schnitzer/pkg/cronx"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// ErrSyncRunnerNotInitialized 서비스 시작 시 핵심 의존성 객체인 SyncRunner가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
var ErrSyncRunnerNotInitialized = apperrors.New(apperrors.Internal, "SyncRunner 객체가 초기화되지 않았습니다")

// Scheduler 설정 파일에 정의된 Cron 스케줄에 맞춰 동기화를 자동으로 실행하는 서비스입니다.
type Scheduler struct {
	schedulerConfig config.SchedulerConfig

	cron *cron.Cron

	// syncRunner 동기화 실행을 요청하는 인터페이스입니다.
	syncRunner contract.SyncRunner

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(schedulerConfig config.SchedulerConfig, runner contract.SyncRunner) *Scheduler {
	if runner == nil {
		panic("SyncRunner는 필수입니다")
	}

	return &Scheduler{
		schedulerConfig: schedulerConfig,

		syncRunner: runner,
	}
}

// Start 스케줄러를 시작하고 동기화 스케줄을 Cron 엔진에 등록합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.syncRunner == nil {
		serviceStopWG.Done()
		return ErrSyncRunnerNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 1. Cron 엔진 초기화
	// - StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// - Recover: Panic 발생 시 복구하여 다른 작업에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 동기화 스케줄 등록
	if s.schedulerConfig.Runnable {
		if _, err := s.cron.AddFunc(s.schedulerConfig.TimeSpec, s.triggerSync); err != nil {
			serviceStopWG.Done()
			return err
		}
	}

	// 3. 스케줄러 시작
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
		"time_spec":            s.schedulerConfig.TimeSpec,
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	// 4. 종료 신호 대기 (고루틴)
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	// Cron 엔진 중지 및 실행 중인 작업 완료 대기
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// triggerSync 스케줄이 도래했을 때 동기화 실행을 요청합니다.
func (s *Scheduler) triggerSync() {
	applog.WithComponent(component).Info("스케줄 도래: 동기화 실행을 요청합니다")

	if err := s.syncRunner.TriggerSync(); err != nil {
		if errors.Is(err, contract.ErrSyncAlreadyRunning) {
			applog.WithComponent(component).Warn("이전 동기화 작업이 아직 실행 중이므로 이번 스케줄을 건너뜁니다")
			return
		}
		applog.WithComponent(component).WithError(err).Error("동기화 실행 요청이 실패했습니다")
	}
}
