// Package log logrus 기반의 전역 로깅 시스템을 제공합니다.
//
// 애플리케이션의 모든 패키지는 이 패키지의 WithComponent 계열 함수를 통해
// component 필드가 포함된 구조화 로그를 남깁니다. 파일 출력은
// lumberjack을 통해 크기/보관일 기준으로 로테이션됩니다.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// defaultLogDirectory 로그 저장 경로가 명시되지 않았을 때 사용되는 기본 디렉토리입니다.
	defaultLogDirectory = "logs"

	// 기본 로그 로테이션 정책
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 20
)

var (
	// setupOnce Setup() 함수의 중복 호출을 방지하기 위한 동기화 객체입니다.
	// 프로세스 생명주기 동안 Setup()이 단 한 번만 실행되도록 보장합니다.
	setupOnce sync.Once

	// globalCloser 전역 로깅 리소스의 해제 객체를 보관합니다.
	globalCloser io.Closer

	// globalSetupErr 초기화 단계에서 발생한 에러를 보관합니다.
	// 초기화 실패 후 Setup()이 재호출되더라도 재시도하지 않고 최초의 에러를 반환합니다.
	globalSetupErr error
)

// nopCloser 파일 출력이 비활성화된 경우 반환되는 빈 Closer입니다.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup 전역 로깅 시스템을 초기화하고 설정된 옵션에 따라 출력을 구성합니다.
//
// 주의:
//   - 애플리케이션 시작 시점(main 함수 도입부)에 호출하는 것을 권장합니다.
//   - 반환된 Closer는 반드시 defer를 통해 리소스가 해제되도록 보장해야 합니다.
func Setup(opts Options) (io.Closer, error) {
	setupOnce.Do(func() {
		globalCloser, globalSetupErr = setupInternal(opts)
	})

	return globalCloser, globalSetupErr
}

// setupInternal 실제 로깅 시스템 초기화 로직을 수행합니다.
func setupInternal(opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("유효하지 않은 로그 설정: %w", err)
	}

	level := opts.Level
	if level == 0 {
		level = InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetReportCaller(opts.ReportCaller)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			return frame.Function + "(line:" + strconv.Itoa(frame.Line) + ")", ""
		},
	})

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.EnableFileLog {
		logDir := opts.Dir
		if logDir == "" {
			logDir = defaultLogDirectory
		}

		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("로그 디렉토리 생성 실패: %w", err)
		}

		maxSize := opts.MaxSizeMB
		if maxSize == 0 {
			maxSize = defaultMaxSizeMB
		}
		maxBackups := opts.MaxBackups
		if maxBackups == 0 {
			maxBackups = defaultMaxBackups
		}

		// 크기/보관일 기준 로테이션은 lumberjack에 위임합니다.
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, opts.Name+".log"),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}

		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	if opts.EnableConsoleLog {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		// 파일/콘솔 출력이 모두 비활성화된 경우 (테스트 환경 등)
		logrus.SetOutput(io.Discard)
	case 1:
		logrus.SetOutput(writers[0])
	default:
		logrus.SetOutput(io.MultiWriter(writers...))
	}

	return closer, nil
}

// SetDebugMode 디버그 모드 여부에 따라 전역 로그 레벨을 조정합니다.
// 환경설정 로드가 끝난 뒤 최종 레벨을 확정하기 위해 사용합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}
