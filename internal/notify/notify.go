// Package notify 동기화 실행 결과를 외부 채널로 발송하는 기능을 제공합니다.
package notify

// component 로그에 기록되는 컴포넌트 이름입니다.
const component = "notify"

// Notifier 알림 발송 기능을 제공하는 인터페이스입니다.
// 외부 컴포넌트(스케줄러, API 등)는 이 인터페이스를 통해 알림 채널을 사용합니다.
type Notifier interface {
	// Notify 일반 알림 메시지를 발송합니다.
	Notify(message string) error

	// NotifyWithTitle 제목이 포함된 알림 메시지를 발송합니다.
	// 제목은 수신 채널에서 강조 표시될 수 있습니다.
	NotifyWithTitle(title string, message string) error
}

// nopNotifier 아무것도 발송하지 않는 Notifier 구현체입니다.
// 알림 채널이 설정되지 않은 환경에서 사용됩니다.
type nopNotifier struct{}

func (nopNotifier) Notify(string) error { return nil }
func (nopNotifier) NotifyWithTitle(string, string) error { return nil }

// NewNop 아무것도 발송하지 않는 Notifier를 생성합니다.
func NewNop() Notifier {
	return nopNotifier{}
}
