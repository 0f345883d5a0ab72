package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
)

// component 카탈로그 저장소 로깅용 컴포넌트 이름
const component = "catalog.store"

// tempFilePattern 저장 시 사용되는 임시 파일의 이름 패턴입니다.
const tempFilePattern = "catalog-*.tmp"

// FileStore 카탈로그 JSON 문서를 파일 시스템에 보관하는 저장소입니다.
//
// 문서는 항상 통째로 다시 쓰여지며(부분/추가 쓰기 없음), 시스템 장애 중에도
// 무결성이 보장되도록 "임시 파일 쓰기 → fsync → 원자적 rename" 전략을 사용합니다.
type FileStore struct {
	path string

	// mu 동일 파일에 대한 동시 쓰기를 방지합니다.
	// 동기화 실행 자체는 단일 스레드이지만, API를 통한 조회와 저장이 겹칠 수 있습니다.
	mu sync.Mutex
}

// NewFileStore 지정된 경로의 카탈로그 파일 저장소를 생성합니다.
func NewFileStore(path string) (*FileStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newErrPathResolutionFailed(err, path)
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, newErrDirectoryAccessFailed(err, filepath.Dir(absPath))
	}

	return &FileStore{path: absPath}, nil
}

// Path 카탈로그 파일의 절대 경로를 반환합니다.
func (s *FileStore) Path() string {
	return s.path
}

// Load 카탈로그 문서를 읽어 반환합니다.
//
// 파일이 아직 존재하지 않는 경우(최초 실행)는 빈 카탈로그를 반환하며 에러가 아닙니다.
// 파일이 존재하지만 JSON으로 해석할 수 없는 경우는 치명적 에러로 간주합니다.
// (대체 수단 없이 손상된 카탈로그 위에 동기화를 수행하면 데이터가 유실됩니다)
func (s *FileStore) Load() (*Catalog, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			applog.WithComponentAndFields(component, applog.Fields{
				"path": s.path,
			}).Info("카탈로그 파일 없음: 빈 카탈로그로 시작합니다")

			return New(), nil
		}

		return nil, newErrCatalogReadFailed(err, s.path)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, newErrCatalogCorrupted(err, s.path)
	}

	if c.Products == nil {
		c.Products = map[string]map[string]*Product{}
	}

	return &c, nil
}

// Save 카탈로그 문서를 통째로 저장합니다.
// 저장 직전에 파생 메타데이터를 재계산하여 문서와 내용의 정합성을 보장합니다.
func (s *FileStore) Save(c *Catalog) error {
	c.RefreshMeta(time.Now())

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return newErrJSONMarshalFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeAtomic(data)
}

// writeAtomic 데이터를 카탈로그 파일에 원자적으로 저장합니다.
//
// 1. 같은 디렉토리 내에 임시 파일 생성 (크로스 파일시스템 rename 방지)
// 2. 데이터 쓰기 후 fsync로 물리적 디스크 기록 보장
// 3. 원자적 rename으로 최종 파일 교체
func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)

	tmpFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return newErrTempFileCreationFailed(err)
	}
	tmpPath := tmpFile.Name()

	defer os.Remove(tmpPath)
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return newErrFileWriteFailed(err)
	}

	if err := tmpFile.Sync(); err != nil {
		return newErrFileSyncFailed(err)
	}

	if err := tmpFile.Close(); err != nil {
		return newErrFileCloseFailed(err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return newErrFileRenameFailed(err)
	}

	// 파일명 변경 사항을 디스크에 확실히 기록하기 위해 부모 디렉토리를 fsync합니다.
	// 실패해도 치명적이지 않으므로 에러를 무시합니다.
	if dirFile, err := os.Open(dir); err == nil {
		_ = dirFile.Sync()
		dirFile.Close()
	}

	return nil
}
