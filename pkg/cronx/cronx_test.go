package cronx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("성공: 6필드 표현식", func(t *testing.T) {
		assert.NoError(t, Validate("0 0 8 * * *"))
	})

	t.Run("성공: Descriptor 표현식", func(t *testing.T) {
		assert.NoError(t, Validate("@daily"))
		assert.NoError(t, Validate("@every 1h"))
	})

	t.Run("실패: 5필드 표준 형식은 지원하지 않음", func(t *testing.T) {
		assert.Error(t, Validate("0 8 * * *"))
	})

	t.Run("실패: 잘못된 표현식", func(t *testing.T) {
		assert.Error(t, Validate("not-a-cron"))
	})
}
