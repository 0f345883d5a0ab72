package mark

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestMarksIntegrity(t *testing.T) {
	allMarks := []Mark{New, Modified, Unavailable, Alert}

	for _, m := range allMarks {
		t.Run(string(m), func(t *testing.T) {
			assert.NotEmpty(t, m)
			// 마크는 순수 이모지 데이터만 보유하며, 표현(공백)은 WithSpace()로 처리한다.
			assert.False(t, strings.HasPrefix(string(m), " "))
			assert.True(t, utf8.ValidString(string(m)))
		})
	}
}

func TestMarkWithSpace(t *testing.T) {
	assert.Equal(t, " 🚨", Alert.WithSpace())
	assert.Equal(t, "", Mark("").WithSpace())
}

func TestMarkString(t *testing.T) {
	var _ fmt.Stringer = New

	assert.Equal(t, "🆕", New.String())
	assert.Equal(t, "🚨", fmt.Sprintf("%s", Alert))
}
