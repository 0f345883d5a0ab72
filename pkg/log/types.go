package log

import "github.com/sirupsen/logrus"

// Level logrus의 로그 레벨 타입 별칭입니다.
type Level = logrus.Level

// 로그 레벨 상수
const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
	TraceLevel = logrus.TraceLevel
)

// Fields 구조화 로깅에 사용되는 필드 맵의 타입 별칭입니다.
type Fields = logrus.Fields

// Entry 단일 로그 항목의 타입 별칭입니다.
type Entry = logrus.Entry
