package log

// NewProductionOptions 운영(Production) 환경에 최적화된 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAgeDays: 30,  // 30일 보관
		MaxSizeMB:  100, // 100MB 단위 로테이션
		MaxBackups: 20,  // 최대 20개 백업 유지

		EnableFileLog:    true,
		EnableConsoleLog: false,

		ReportCaller: true,
	}
}

// NewDevelopmentOptions 개발(Development) 환경에 최적화된 로그 설정을 반환합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAgeDays: 1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableFileLog:    false, // 개발 환경은 콘솔 출력만 사용
		EnableConsoleLog: true,

		ReportCaller: true,
	}
}
