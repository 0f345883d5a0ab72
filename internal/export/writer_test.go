package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YudheerRM/ac-schnitzer/internal/catalog"
)

// rowOfType 지정된 타입의 최소 행을 생성합니다.
func rowOfType(rowType string) Row {
	row := newRow()
	row["Type"] = rowType
	return row
}

func readCSVRows(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBatchWriter(t *testing.T) {
	t.Run("성공: 제한 도달 시 마지막 행이 simple이면 배치가 분리된다", func(t *testing.T) {
		// Given
		dir := t.TempDir()
		w := NewBatchWriter(filepath.Join(dir, "products.csv"), 2)

		// When
		require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		require.NoError(t, w.Close())

		// Then
		files := w.Files()
		require.Len(t, files, 2)
		assert.Equal(t, filepath.Join(dir, "products_1.csv"), files[0])
		assert.Equal(t, filepath.Join(dir, "products_2.csv"), files[1])

		// 헤더 1행 + 데이터 2행 / 헤더 1행 + 데이터 1행
		assert.Len(t, readCSVRows(t, files[0]), 3)
		assert.Len(t, readCSVRows(t, files[1]), 2)
	})

	t.Run("성공: 상품 행 그룹 중간에서는 절대 분리되지 않는다", func(t *testing.T) {
		// Given: 제한 2, variable 부모 + variation 자식 3개짜리 상품
		dir := t.TempDir()
		w := NewBatchWriter(filepath.Join(dir, "products.csv"), 2)

		group := []Row{
			rowOfType(TypeVariable),
			rowOfType(TypeVariation),
			rowOfType(TypeVariation),
			rowOfType(TypeVariation),
		}

		// When: 제한을 초과해도 마지막 행이 variation이므로 분리되지 않는다
		require.NoError(t, w.Append(group))
		require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		require.NoError(t, w.Close())

		// Then: simple 행이 추가된 시점에 한 번만 분리된다
		files := w.Files()
		require.Len(t, files, 1)
		assert.Len(t, readCSVRows(t, files[0]), 6)
	})

	t.Run("성공: 제한이 0 이하면 모든 행이 파일 하나에 기록된다", func(t *testing.T) {
		// Given
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "products.csv")
		w := NewBatchWriter(outputPath, 0)

		// When
		for i := 0; i < 10; i++ {
			require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		}
		require.NoError(t, w.Close())

		// Then: 배치 번호 없는 원래 경로에 기록
		require.Equal(t, []string{outputPath}, w.Files())
		assert.Len(t, readCSVRows(t, outputPath), 11)
	})

	t.Run("성공: 기록할 행이 없으면 파일이 생성되지 않는다", func(t *testing.T) {
		dir := t.TempDir()
		w := NewBatchWriter(filepath.Join(dir, "products.csv"), 0)

		require.NoError(t, w.Close())

		assert.Empty(t, w.Files())
	})

	t.Run("성공: 기록된 CSV의 헤더는 고정 컬럼 순서를 따른다", func(t *testing.T) {
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "products.csv")
		w := NewBatchWriter(outputPath, 0)

		require.NoError(t, w.Append([]Row{rowOfType(TypeSimple)}))
		require.NoError(t, w.Close())

		records := readCSVRows(t, outputPath)
		require.NotEmpty(t, records)
		assert.Equal(t, Header, records[0])
		assert.Len(t, records[0], 58)
	})
}

func TestRun(t *testing.T) {
	newCatalog := func() *catalog.Catalog {
		c := catalog.New()
		c.Upsert(&catalog.Product{Brand: "bmw", URL: "https://example.com/p/1", Title: "Widget", SKU: "S1"})
		c.Upsert(&catalog.Product{Brand: "mini", URL: "https://example.com/p/2", Title: "Gadget", SKU: "S2"})
		return c
	}

	t.Run("성공: 전체 브랜드가 정렬된 순서로 내보내진다", func(t *testing.T) {
		// Given
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "out.csv")

		// When
		result, err := Run(newCatalog(), Options{OutputPath: outputPath})

		// Then
		require.NoError(t, err)
		assert.Equal(t, 2, result.Products)
		assert.Equal(t, 2, result.Rows)
		require.Equal(t, []string{outputPath}, result.Files)

		records := readCSVRows(t, outputPath)
		require.Len(t, records, 3)
		assert.Equal(t, "Widget", records[1][2])
		assert.Equal(t, "Gadget", records[2][2])
	})

	t.Run("성공: 브랜드 필터는 대소문자를 무시한다", func(t *testing.T) {
		dir := t.TempDir()
		outputPath := filepath.Join(dir, "out.csv")

		result, err := Run(newCatalog(), Options{OutputPath: outputPath, Brands: []string{"BMW"}})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Products)
	})

	t.Run("실패: 필터에 맞는 상품이 없으면 에러를 반환한다", func(t *testing.T) {
		dir := t.TempDir()

		result, err := Run(newCatalog(), Options{
			OutputPath: filepath.Join(dir, "out.csv"),
			Brands:     []string{"toyota"},
		})

		require.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestDefaultOutputName(t *testing.T) {
	assert.Equal(t, "woocommerce_products.csv", DefaultOutputName(nil))
	assert.Equal(t, "woocommerce_bmw.csv", DefaultOutputName([]string{"bmw"}))
	assert.Equal(t, "woocommerce_bmw_mini.csv", DefaultOutputName([]string{"BMW", "mini"}))
}
