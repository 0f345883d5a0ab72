package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YudheerRM/ac-schnitzer/internal/config"
	"github.com/YudheerRM/ac-schnitzer/internal/service/contract"
)

// mockSyncRunner TriggerSync 호출을 기록하는 SyncRunner 목 구현체입니다.
type mockSyncRunner struct {
	triggerCount atomic.Int32
	triggerErr   error
}

func (m *mockSyncRunner) TriggerSync() error {
	m.triggerCount.Add(1)
	return m.triggerErr
}

func (m *mockSyncRunner) Status() contract.SyncStatus {
	return contract.SyncStatus{State: contract.SyncStateIdle}
}

func TestNewService(t *testing.T) {
	t.Run("성공: 유효한 의존성으로 인스턴스가 생성된다", func(t *testing.T) {
		assert.NotPanics(t, func() {
			s := NewService(config.SchedulerConfig{}, &mockSyncRunner{})
			assert.NotNil(t, s)
		})
	})

	t.Run("실패: SyncRunner가 nil이면 패닉이 발생한다", func(t *testing.T) {
		assert.PanicsWithValue(t, "SyncRunner는 필수입니다", func() {
			NewService(config.SchedulerConfig{}, nil)
		})
	})
}

func TestSchedulerLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("성공: 시작과 중지가 정상적으로 수행된다", func(t *testing.T) {
		// Given
		s := NewService(config.SchedulerConfig{}, &mockSyncRunner{})
		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		// When
		wg.Add(1)
		err := s.Start(ctx, &wg)

		// Then
		require.NoError(t, err)
		assert.True(t, s.running)
		assert.NotNil(t, s.cron)

		// 종료 신호로 중지
		cancel()
		wg.Wait()
		assert.False(t, s.running)
	})

	t.Run("성공: 중복 시작 호출은 무시된다", func(t *testing.T) {
		// Given
		s := NewService(config.SchedulerConfig{}, &mockSyncRunner{})
		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		wg.Add(1)
		require.NoError(t, s.Start(ctx, &wg))

		// When: 이미 실행 중일 때 다시 Start 호출
		wg.Add(1)
		err := s.Start(ctx, &wg)

		// Then
		assert.NoError(t, err)

		cancel()
		wg.Wait()
	})

	t.Run("실패: 잘못된 Cron 표현식이면 시작이 실패한다", func(t *testing.T) {
		// Given
		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "not a cron"}, &mockSyncRunner{})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var wg sync.WaitGroup

		// When
		wg.Add(1)
		err := s.Start(ctx, &wg)

		// Then
		assert.Error(t, err)
		assert.False(t, s.running)
		wg.Wait()
	})
}

func TestSchedulerTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("성공: 스케줄이 도래하면 동기화 실행이 요청된다", func(t *testing.T) {
		// Given: 매초 실행되는 스케줄
		runner := &mockSyncRunner{}
		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "* * * * * *"}, runner)
		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup

		wg.Add(1)
		require.NoError(t, s.Start(ctx, &wg))

		// When: 스케줄이 최소 한 번 도래할 때까지 대기
		assert.Eventually(t, func() bool {
			return runner.triggerCount.Load() >= 1
		}, 3*time.Second, 50*time.Millisecond)

		// Then
		cancel()
		wg.Wait()
	})

	t.Run("성공: 이미 실행 중이면 이번 스케줄을 건너뛴다", func(t *testing.T) {
		// Given
		runner := &mockSyncRunner{triggerErr: contract.ErrSyncAlreadyRunning}
		s := NewService(config.SchedulerConfig{}, runner)

		// When: 직접 트리거 호출 (에러가 로깅만 되고 전파되지 않아야 함)
		assert.NotPanics(t, func() { s.triggerSync() })
		assert.Equal(t, int32(1), runner.triggerCount.Load())
	})
}
