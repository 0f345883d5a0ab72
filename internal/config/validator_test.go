package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTelegramBotTokenRegex(t *testing.T) {
	testCases := []struct {
		name  string
		token string
		valid bool
	}{
		{"표준 형식", "123456789:ABC-DEF1234ghIkl-zyx57W2v1u123ew11", true},
		{"콜론 없음", "123456789ABCDEF1234ghIkl-zyx57W2v1u123ew11", false},
		{"식별자가 숫자가 아님", "abcdef:ABC-DEF1234ghIkl-zyx57W2v1u123ew11", false},
		{"비밀키가 너무 짧음", "123456789:short", false},
		{"빈 문자열", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, telegramBotTokenRegex.MatchString(tc.token))
		})
	}
}
