package log

import (
	log "github.com/sirupsen/logrus"
)

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 모든 로그에 component 필드를 일관되게 추가하기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithFields(log.Fields{
		"component": component,
	})
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	newFields := make(log.Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return log.WithFields(newFields)
}

// StandardLogger 전역 logrus 로거를 반환합니다.
// cron 등 외부 라이브러리에 표준 로거를 전달할 때 사용합니다.
func StandardLogger() *log.Logger {
	return log.StandardLogger()
}
