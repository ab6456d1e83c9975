package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// mainMenu 主菜单回复键盘，管理员多一行开发者入口
func (b *Bot) mainMenu(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonLanguage),
			tgbotapi.NewKeyboardButton(buttonForward),
		),
	}

	if b.config.IsAdmin(chatID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDeveloper),
		))
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// exitForwardKeyboard 传话消息附带的退出按钮
func (b *Bot) exitForwardKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("退出双向传话", "exit_forward"),
		),
	)
}

// languageLinkKeyboard 语言包跳转按钮
func (b *Bot) languageLinkKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(buttonLanguage, "https://t.me/setlanguage/zhcncc"),
		),
	)
}
