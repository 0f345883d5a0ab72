// Package urlutil 상품 URL의 정규화 키 계산 유틸리티를 제공합니다.
//
// AC Schnitzer 쇼핑몰의 상품 URL은 경로 중간의 숫자 ID가 크롤링 시점마다
// 달라질 수 있습니다. (예: /371/acs-widget/ 과 /372/acs-widget/ 은 같은 상품)
// 상품의 논리적 식별자는 마지막 경로 세그먼트(슬러그)에만 존재한다고 가정하고,
// 이 슬러그를 브랜드 독립적인 매칭 키로 사용합니다.
//
// 정규화 키는 매칭/중복 제거 시점에만 사용되는 파생 값이며,
// 카탈로그 저장소의 키로는 절대 사용하지 않습니다.
package urlutil

import "strings"

// NormalizeKey 상품 URL에서 정규화 키(마지막 경로 세그먼트)를 추출합니다.
//
// 처리 순서:
//  1. 쿼리 스트링("?...") 제거
//  2. 후행 슬래시 제거
//  3. 마지막 "/" 구분 세그먼트 반환
//
// 전함수(total function)로 설계되어 어떤 입력에도 실패하지 않으며,
// 세그먼트를 얻을 수 없는 입력은 원본 문자열을 그대로 반환합니다.
func NormalizeKey(rawURL string) string {
	cleaned := rawURL
	if idx := strings.Index(cleaned, "?"); idx != -1 {
		cleaned = cleaned[:idx]
	}
	cleaned = strings.TrimSuffix(cleaned, "/")

	if idx := strings.LastIndex(cleaned, "/"); idx != -1 {
		segment := cleaned[idx+1:]
		if segment != "" {
			return segment
		}
	}

	if cleaned != "" {
		return cleaned
	}
	return rawURL
}
