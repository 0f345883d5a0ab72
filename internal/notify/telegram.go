package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	apperrors "github.com/YudheerRM/ac-schnitzer/internal/pkg/errors"
	applog "github.com/YudheerRM/ac-schnitzer/pkg/log"
	"github.com/YudheerRM/ac-schnitzer/pkg/strutil"
)

// msgContextTitle 제목이 포함된 알림 메시지의 HTML 포맷입니다.
const msgContextTitle = "<b>【 %s 】</b>\n\n%s"

// telegramSender 텔레그램 봇 API의 메시지 발송 기능을 추상화한 인터페이스입니다.
// 테스트에서는 실제 봇 API 대신 목(Mock) 구현체를 주입합니다.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier 텔레그램 봇을 통해 알림 메시지를 발송하는 Notifier 구현체입니다.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegram 텔레그램 봇 API를 초기화하여 TelegramNotifier를 생성합니다.
func NewTelegram(botToken string, chatID int64, debug bool) (*TelegramNotifier, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": strutil.MaskSensitiveData(botToken),
	}).Debug("텔레그램 봇 초기화 시도")

	botAPI, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "텔레그램 봇 초기화 실패 (토큰을 확인해주세요)")
	}
	botAPI.Debug = debug

	return newTelegramWithSender(botAPI, chatID), nil
}

// newTelegramWithSender 주어진 발송 구현체로 TelegramNotifier를 생성합니다.
func newTelegramWithSender(bot telegramSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
	}
}

// Notify 일반 알림 메시지를 발송합니다.
func (n *TelegramNotifier) Notify(message string) error {
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, message)); err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "텔레그램 메시지 발송에 실패했습니다")
	}
	return nil
}

// NotifyWithTitle 제목이 포함된 알림 메시지를 HTML 포맷으로 발송합니다.
func (n *TelegramNotifier) NotifyWithTitle(title string, message string) error {
	messageConfig := tgbotapi.NewMessage(n.chatID, fmt.Sprintf(msgContextTitle, title, message))
	messageConfig.ParseMode = tgbotapi.ModeHTML

	if _, err := n.bot.Send(messageConfig); err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "텔레그램 메시지 발송에 실패했습니다")
	}
	return nil
}
