// acsync-update 동기화 파이프라인을 한 차례 실행하는 단발성 CLI입니다.
// 서버 구동 없이 크론잡 등 외부 스케줄러에서 호출할 수 있습니다.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/config"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	"github.com/YudheerRM/ac-schnitzer/internal/scraper"
	"github.com/YudheerRM/ac-schnitzer/internal/update"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
	"github.com/YudheerRM/ac-schnitzer/pkg/strutil"
)

// maxRetryDelay 재시도 대기 시간의 상한
const maxRetryDelay = 30 * time.Second

// defaultDiscoverBase 브랜드 목록 페이지의 기본 베이스 URL
const defaultDiscoverBase = "https://tuning.ac-schnitzer.de/en"

// defaultDiscoverBrands 목록 페이지를 순회할 기본 브랜드 슬러그 목록
const defaultDiscoverBrands = "bmw,mini,toyota,accessoires"

func main() {
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	skipExport := flag.Bool("skip-export", false, "동기화 후 CSV 내보내기를 생략합니다")
	discover := flag.Bool("discover", false, "목록 페이지를 순회하여 사이트맵에 없는 신규 상품을 함께 수집합니다")
	discoverBase := flag.String("discover-base", defaultDiscoverBase, "브랜드 목록 페이지의 베이스 URL")
	discoverBrands := flag.String("discover-brands", defaultDiscoverBrands, "목록 페이지를 순회할 브랜드 슬러그 목록 (쉼표 구분)")
	flag.Parse()

	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	applog.SetDebugMode(appConfig.Debug)

	store, err := catalog.NewFileStore(appConfig.Catalog.Path)
	if err != nil {
		log.Fatalf("카탈로그 저장소 초기화 실패: %v", err)
	}

	fetcher := scraper.NewRetryFetcher(
		scraper.NewHTTPFetcher(appConfig.Scrape.UserAgent),
		appConfig.HTTPRetry.MaxRetries,
		appConfig.HTTPRetry.RetryDelayDuration(),
		maxRetryDelay,
	)

	pipelineConfig := update.Config{SitemapURL: appConfig.Sitemap.URL}
	if *discover {
		pipelineConfig.Discoverer = scraper.NewDiscoverer(
			*discoverBase,
			appConfig.Scrape.UserAgent,
			appConfig.Scrape.DelayDuration(),
			0,
		)
		pipelineConfig.DiscoverBrands = strutil.SplitAndTrim(*discoverBrands, ",")
	}
	if !*skipExport {
		pipelineConfig.Export = &export.Options{
			OutputPath:   filepath.Join(appConfig.Export.Dir, export.DefaultOutputName(appConfig.Export.Brands)),
			Brands:       appConfig.Export.Brands,
			BatchSize:    appConfig.Export.BatchSize,
			PriceFormula: appConfig.Export.PriceFormula,
		}
	}

	pipeline := update.NewPipeline(
		store,
		scraper.New(fetcher, appConfig.Scrape.DelayDuration()),
		fetcher,
		pipelineConfig,
	)

	// 시그널 수신 시 실행 중인 동기화를 중단한다.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("동기화 실행 실패: %v", err)
	}

	fmt.Println(summary.String())
	if summary.Discovered > 0 {
		fmt.Printf("목록 페이지에서 신규 상품 %d건을 발견했습니다\n", summary.Discovered)
	}
	for _, file := range summary.ExportFiles {
		fmt.Printf("내보내기 파일: %s\n", file)
	}

	if summary.Failed > 0 {
		fmt.Fprintf(os.Stderr, "%d건의 URL 수집에 실패했습니다:\n", summary.Failed)
		for _, detail := range summary.FailureDetails {
			fmt.Fprintf(os.Stderr, "  - %s\n", detail)
		}
	}
}
