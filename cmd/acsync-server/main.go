package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/config"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	"github.com/YudheerRM/ac-schnitzer/internal/notify"
	"github.com/YudheerRM/ac-schnitzer/internal/pkg/version"
	"github.com/YudheerRM/ac-schnitzer/internal/scraper"
	"github.com/YudheerRM/ac-schnitzer/internal/service"
	"github.com/YudheerRM/ac-schnitzer/internal/service/api"
	"github.com/YudheerRM/ac-schnitzer/internal/service/scheduler"
	syncservice "github.com/YudheerRM/ac-schnitzer/internal/service/sync"
	"github.com/YudheerRM/ac-schnitzer/internal/update"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// 빌드 정보 변수 (빌드 시 ldflags로 주입됨)
var (
	Version     = "dev"     // Git 커밋 해시
	BuildDate   = "unknown" // 빌드 날짜
	BuildNumber = "0"       // 빌드 번호
)

// maxRetryDelay 재시도 대기 시간의 상한
const maxRetryDelay = 30 * time.Second

const banner = `
    _     ____  ____
   / \   / ___|/ ___|  _   _  _ __    ___
  / _ \ | |    \___ \ | | | || '_ \  / __|
 / ___ \| |___  ___) || |_| || | | || (__
/_/   \_\\____||____/  \__, ||_| |_| \___|
                       |___/              %s
--------------------------------------------------------------------------------
`

func main() {
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	flag.Parse()

	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	fmt.Printf(banner, Version)

	// 빌드 정보 설정 (전역 싱글톤 등록)
	buildInfo := version.Info{
		Version:     Version,
		BuildDate:   BuildDate,
		BuildNumber: BuildNumber,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
	}
	version.Set(buildInfo)

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 준수 여부 점검
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 동기화 파이프라인 조립
	pipeline, err := buildPipeline(appConfig)
	if err != nil {
		log.Fatalf("동기화 파이프라인 초기화 실패: %v", err)
	}

	// 알림 채널 초기화
	notifier, err := buildNotifier(appConfig)
	if err != nil {
		log.Fatalf("알림 채널 초기화 실패: %v", err)
	}

	// 서비스를 생성하고 초기화한다.
	syncService := syncservice.NewService(pipeline, notifier)
	schedulerService := scheduler.NewService(appConfig.Scheduler, syncService)
	apiService := api.NewService(appConfig, syncService)

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{syncService, schedulerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// 종료 시그널 대기
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC

	applog.WithComponent("main").Info("종료 시그널 수신")
	cancel()
	serviceStopWG.Wait()
}

// buildPipeline 설정 파일로부터 동기화 파이프라인을 조립합니다.
func buildPipeline(appConfig *config.AppConfig) (*update.Pipeline, error) {
	store, err := catalog.NewFileStore(appConfig.Catalog.Path)
	if err != nil {
		return nil, err
	}

	fetcher := scraper.NewRetryFetcher(
		scraper.NewHTTPFetcher(appConfig.Scrape.UserAgent),
		appConfig.HTTPRetry.MaxRetries,
		appConfig.HTTPRetry.RetryDelayDuration(),
		maxRetryDelay,
	)

	exportOptions := &export.Options{
		OutputPath:   filepath.Join(appConfig.Export.Dir, export.DefaultOutputName(appConfig.Export.Brands)),
		Brands:       appConfig.Export.Brands,
		BatchSize:    appConfig.Export.BatchSize,
		PriceFormula: appConfig.Export.PriceFormula,
	}

	return update.NewPipeline(
		store,
		scraper.New(fetcher, appConfig.Scrape.DelayDuration()),
		fetcher,
		update.Config{
			SitemapURL: appConfig.Sitemap.URL,
			Export:     exportOptions,
		},
	), nil
}

// buildNotifier 설정 파일로부터 알림 채널을 조립합니다.
// 텔레그램이 설정되지 않았으면 아무것도 발송하지 않는 Notifier를 반환합니다.
func buildNotifier(appConfig *config.AppConfig) (notify.Notifier, error) {
	if appConfig.Notify.Telegram == nil {
		return notify.NewNop(), nil
	}
	return notify.NewTelegram(
		appConfig.Notify.Telegram.BotToken,
		appConfig.Notify.Telegram.ChatID,
		appConfig.Debug,
	)
}
