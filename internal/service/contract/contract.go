// Package contract 서비스 간 호출 경계를 정의하는 인터페이스 모음입니다.
//
// API, 스케줄러와 같은 호출자는 구체 구현 대신 이 패키지의 인터페이스에
// 의존하여 서비스 간 결합도를 낮춥니다.
package contract

import (
	"time"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
)

// ErrSyncAlreadyRunning 동기화 작업이 이미 실행 중일 때 반환하는 에러입니다.
// 동기화는 카탈로그 파일을 독점 소유해야 하므로 동시 실행이 허용되지 않습니다.
var ErrSyncAlreadyRunning = apperrors.New(apperrors.ExecutionFailed, "동기화 작업이 이미 실행 중입니다")

// SyncState 동기화 작업 슬롯의 현재 상태입니다.
type SyncState string

const (
	// SyncStateIdle 실행 중인 동기화 작업이 없는 상태
	SyncStateIdle SyncState = "idle"

	// SyncStateRunning 동기화 작업이 실행 중인 상태
	SyncStateRunning SyncState = "running"
)

// SyncStatus 동기화 작업 슬롯의 상태와 마지막 실행 결과입니다.
type SyncStatus struct {
	State SyncState `json:"state"`

	LastStartedAt  time.Time `json:"last_started_at,omitempty"`
	LastFinishedAt time.Time `json:"last_finished_at,omitempty"`

	// LastReport 마지막 실행의 한 줄 요약. 아직 실행된 적이 없으면 비어있습니다.
	LastReport string `json:"last_report,omitempty"`

	// LastError 마지막 실행이 치명적 에러로 중단된 경우의 에러 메시지
	LastError string `json:"last_error,omitempty"`

	// ExportFiles 마지막 실행이 생성한 CSV 파일 경로 목록
	ExportFiles []string `json:"export_files,omitempty"`
}

// SyncRunner 동기화 실행 요청 기능을 제공하는 인터페이스입니다.
type SyncRunner interface {
	// TriggerSync 동기화 작업을 비동기로 시작합니다.
	// 작업 슬롯이 이미 사용 중이면 ErrSyncAlreadyRunning을 반환합니다.
	TriggerSync() error

	// Status 작업 슬롯의 현재 상태를 반환합니다.
	Status() SyncStatus
}
