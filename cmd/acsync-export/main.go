// acsync-export 저장된 카탈로그를 WooCommerce 임포트용 CSV 파일로 변환하는 CLI입니다.
// 동기화 없이 현재 카탈로그 내용만으로 내보내기를 수행합니다.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
	"github.com/YudheerRM/ac-schnitzer/internal/export"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
	"github.com/YudheerRM/ac-schnitzer/pkg/strutil"
)

func main() {
	input := flag.String("input", "data/catalog.json", "카탈로그 JSON 파일 경로")
	output := flag.String("output", "", "출력 CSV 파일 경로 (기본값: 브랜드 기반 자동 생성)")
	brands := flag.String("brands", "", "내보낼 브랜드 목록 (쉼표 구분, 비어있으면 전체)")
	batchSize := flag.Int("batch", 0, "배치당 최대 행 수 (0: 분할 없음)")
	priceFormula := flag.String("price-formula", "", "가격 조정 수식 (예: 'round(x * 1.19)')")
	flag.Parse()

	logOpts := applog.NewDevelopmentOptions("acsync-export")
	logOpts.EnableFileLog = false

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	store, err := catalog.NewFileStore(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 카탈로그 저장소 초기화 실패: %v\n", err)
		os.Exit(1)
	}

	c, err := store.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 카탈로그 로드 실패: %v\n", err)
		os.Exit(1)
	}

	brandList := strutil.SplitAndTrim(*brands, ",")

	outputPath := *output
	if outputPath == "" {
		outputPath = export.DefaultOutputName(brandList)
	}

	result, err := export.Run(c, export.Options{
		OutputPath:   outputPath,
		Brands:       brandList,
		BatchSize:    *batchSize,
		PriceFormula: *priceFormula,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 내보내기 실패: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("상품 %s개를 %s행으로 내보냈습니다\n", strutil.FormatCommas(result.Products), strutil.FormatCommas(result.Rows))
	for _, file := range result.Files {
		fmt.Printf("  - %s\n", file)
	}
}
