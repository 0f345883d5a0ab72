package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// BatchWriter 행 스트림을 크기 제한 배치 CSV 파일로 나누어 기록합니다.
//
// 배치는 누적 행 수가 제한에 도달하고 마지막으로 추가된 행이 simple 타입일 때만
// 분리됩니다. variable 부모 행이나 전개 중인 variation 행 직후에는 절대 분리되지
// 않으므로, 한 상품의 행 그룹이 두 파일로 쪼개지는 일이 없습니다.
type BatchWriter struct {
	outputPath string
	maxRows    int

	rows       []Row
	batchIndex int
	files      []string
}

// NewBatchWriter 새로운 BatchWriter를 생성합니다.
//
// maxRows가 0 이하면 배치 분할이 비활성화되어 모든 행이 outputPath 파일 하나에
// 기록됩니다. 배치가 활성화된 경우 파일 이름은 "<이름>_<번호><확장자>"가 됩니다.
func NewBatchWriter(outputPath string, maxRows int) *BatchWriter {
	return &BatchWriter{
		outputPath: outputPath,
		maxRows:    maxRows,
		batchIndex: 1,
	}
}

// Append 상품 하나의 행 그룹을 추가하고, 배치 분리 조건이 충족되면 현재 배치를
// 파일로 내보냅니다.
func (w *BatchWriter) Append(rows []Row) error {
	w.rows = append(w.rows, rows...)

	if w.maxRows <= 0 || len(w.rows) < w.maxRows {
		return nil
	}

	// 마지막 행이 simple일 때만 분리 가능. (상품 행 그룹 보존 규칙)
	if w.rows[len(w.rows)-1]["Type"] != TypeSimple {
		return nil
	}

	return w.flush()
}

// Close 남아있는 행을 마지막(미달 크기일 수 있는) 배치로 내보냅니다.
func (w *BatchWriter) Close() error {
	if len(w.rows) == 0 {
		return nil
	}
	return w.flush()
}

// Files 지금까지 기록된 파일 경로 목록을 반환합니다.
func (w *BatchWriter) Files() []string {
	return w.files
}

// flush 누적된 행을 다음 배치 파일로 기록하고 누적 버퍼를 비웁니다.
func (w *BatchWriter) flush() error {
	path := w.outputPath
	if w.maxRows > 0 {
		path = w.batchPath()
	}

	if err := writeCSV(path, w.rows); err != nil {
		return err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"path": path,
		"rows": len(w.rows),
	}).Info("CSV 배치 기록 완료")

	w.files = append(w.files, path)
	w.rows = nil
	w.batchIndex++
	return nil
}

// batchPath 현재 배치 번호가 붙은 출력 파일 경로를 생성합니다.
func (w *BatchWriter) batchPath() string {
	dir := filepath.Dir(w.outputPath)
	base := filepath.Base(w.outputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, w.batchIndex, ext))
}

// writeCSV 헤더와 행 목록을 CSV 파일 하나로 기록합니다.
func writeCSV(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("CSV 파일을 생성할 수 없습니다 (%s)", path))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return apperrors.Wrap(err, apperrors.System, "CSV 헤더 기록 중 에러가 발생했습니다")
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return apperrors.Wrap(err, apperrors.System, "CSV 행 기록 중 에러가 발생했습니다")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.Wrap(err, apperrors.System, "CSV 기록 버퍼 정리 중 에러가 발생했습니다")
	}

	if err := file.Close(); err != nil {
		return apperrors.Wrap(err, apperrors.System, fmt.Sprintf("CSV 파일을 닫을 수 없습니다 (%s)", path))
	}

	return nil
}
