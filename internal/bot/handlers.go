package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-baccarat-bot/internal/baccarat"
	"telegram-baccarat-bot/internal/models"
	"telegram-baccarat-bot/internal/session"
	"telegram-baccarat-bot/internal/utils"
)

const (
	buttonLanguage  = "🐾 桃奈语"
	buttonForward   = "🐾 双向传话"
	buttonDeveloper = "🐾 开发者入口"
)

// handleMessage 处理一条文本消息
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	unlock := b.lockUser(message.From.ID)
	defer unlock()

	b.recordProfile(message.From)

	if message.IsCommand() {
		return b.handleCommand(message)
	}

	return b.handleText(message)
}

// handleCommand 处理命令
func (b *Bot) handleCommand(message *tgbotapi.Message) error {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		b.handleStart(message)
	case "status":
		b.replyTo(message, "✅ 机器人当前在线。")
	case "balance":
		b.handleBalance(message)
	case "add":
		b.handleAdd(message, args)
	case "baccarat":
		b.handleBaccarat(message, args)
	default:
		b.sendMessageWithMarkup(message.Chat.ID, "🐾 未识别指令，请从菜单选择", b.mainMenu(message.Chat.ID))
	}

	return nil
}

// handleText 处理普通文本：菜单按钮优先，其余进入传话路由
func (b *Bot) handleText(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch text {
	case buttonLanguage:
		b.sendMessageWithMarkup(chatID, "点下面的「🐾 桃奈语」立即切换到【桃奈湿身语】", b.languageLinkKeyboard())
		return nil

	case buttonForward:
		b.sessions.Request(chatID)
		b.sendMessageWithMarkup(chatID, "请发送要传达给主人的内容：", b.mainMenu(chatID))
		return nil

	case buttonDeveloper:
		if b.config.IsAdmin(chatID) {
			b.handleUserList(chatID)
			return nil
		}
	}

	return b.routeForward(message)
}

// routeForward 传话会话路由：等待态的首条消息触发配对，配对态原样转发
func (b *Bot) routeForward(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	action, partnerID := b.sessions.Route(chatID)

	switch action {
	case session.RoutePairFirst:
		b.sendMessageWithMarkup(partnerID,
			fmt.Sprintf("来自 @%s 的传话：%s", b.getUserDisplay(message.From), text),
			b.exitForwardKeyboard())
		b.sendMessageWithMarkup(chatID, "✅ 已发送，进入双向传话模式，点击「退出双向传话」结束。", b.mainMenu(chatID))

	case session.RouteRelay:
		b.sendMessageWithMarkup(partnerID,
			fmt.Sprintf("来自 @%s 的传话：%s", b.getUserDisplay(message.From), text),
			b.exitForwardKeyboard())

	default:
		b.sendMessageWithMarkup(chatID, "🐾 未识别指令，请从菜单选择", b.mainMenu(chatID))
	}

	return nil
}

// handleStart 欢迎语与主菜单
func (b *Bot) handleStart(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	b.sendMessageWithMarkup(chatID, "每次你点我都会湿成小猫，快来试试我的湿身中文包♡", b.mainMenu(chatID))
	b.sendMessageWithMarkup(chatID, "点下面的「🐾 桃奈语」立即切换到【桃奈湿身语】", b.languageLinkKeyboard())
}

// handleUserList 开发者入口：列出全部用户档案
func (b *Bot) handleUserList(chatID int64) {
	users, err := b.db.ListUsers()
	if err != nil {
		b.logger.Error("查询用户列表失败: %v", err)
		b.sendMessage(chatID, "❌ 查询用户列表失败")
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 开发者入口 · 用户列表：\n")
	for i, user := range users {
		username := user.Username
		if username == "" {
			username = "—"
		}
		name := user.Name
		if name == "" {
			name = "—"
		}
		sb.WriteString(fmt.Sprintf("%d. ID:%d | 用户名:@%s | 名称:%s\n", i+1, user.ID, username, name))
		sb.WriteString(fmt.Sprintf("     首次:%s | 最近:%s\n",
			user.FirstTs.Format("2006-01-02 15:04:05"),
			user.LastTs.Format("2006-01-02 15:04:05")))
	}

	b.sendMessageWithMarkup(chatID, sb.String(), b.mainMenu(chatID))
}

// handleBalance 查询余额，首次查询自动建账
func (b *Bot) handleBalance(message *tgbotapi.Message) {
	balance := b.ledger.Balance(message.From.ID, message.From.UserName)
	b.replyTo(message, fmt.Sprintf("你的余额为：%s", utils.FormatBalance(balance)))
}

// handleAdd 管理员按用户名加减余额：/add @用户名 金额
func (b *Bot) handleAdd(message *tgbotapi.Message, args string) {
	if !b.config.IsAdmin(message.From.ID) {
		return
	}

	parts := strings.Fields(args)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "@") {
		b.replyTo(message, "格式错误，应为 /add @用户名 金额")
		return
	}

	username := strings.TrimPrefix(parts[0], "@")
	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		b.replyTo(message, "格式错误，应为 /add @用户名 金额")
		return
	}

	if _, err := b.ledger.CreditByUsername(username, amount); err != nil {
		b.replyTo(message, fmt.Sprintf("未找到用户 %s", username))
		return
	}

	b.logger.LogBetAction(message.From.ID, "add", fmt.Sprintf("为 %s 调整余额 %d", username, amount))
	b.replyTo(message, fmt.Sprintf("已增加 %s 的余额 %d 💰", username, amount))
}

// handleBaccarat 一局百家乐：解析注单、整案校验、发牌、逐项结算
func (b *Bot) handleBaccarat(message *tgbotapi.Message, args string) {
	userID := message.From.ID

	bets := baccarat.ParseBets(args)
	if len(bets) == 0 {
		b.replyTo(message, "请使用格式如：/baccarat 闲100 超620 庄对30")
		return
	}

	var deal *models.Deal
	var results []baccarat.KindResult

	newBalance, err := b.ledger.Settle(userID, message.From.UserName, bets.TotalStake(),
		func(balance int64) (int64, error) {
			deal = b.dealer.Deal()
			payout, kindResults := baccarat.Settle(bets, deal)
			results = kindResults
			return payout, nil
		})
	if err != nil {
		b.replyTo(message, err.Error())
		return
	}

	b.logger.LogBetAction(userID, "baccarat", fmt.Sprintf("总注 %d，结算后余额 %d", bets.TotalStake(), newBalance))
	b.replyTo(message, formatRoundResult(deal, results, newBalance))
}

// formatRoundResult 拼装一局的开牌与逐项结算明细
func formatRoundResult(deal *models.Deal, results []baccarat.KindResult, balance int64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🎴发牌：\n闲：%v（%d点）\n庄：%v（%d点）\n结果：%s\n",
		deal.PlayerCards, deal.PlayerPoint(),
		deal.BankerCards, deal.BankerPoint(),
		strings.ToUpper(string(deal.Outcome))))

	for _, r := range results {
		if r.Win {
			sb.WriteString(fmt.Sprintf("✅ 赢了下注[%s]，获得💰%d\n", r.Kind, r.Gain))
		} else {
			sb.WriteString(fmt.Sprintf("❌ 输了下注[%s]\n", r.Kind))
		}
	}

	sb.WriteString(fmt.Sprintf("\n当前余额：%s", utils.FormatBalance(balance)))
	return sb.String()
}

// handleCallbackQuery 处理内联按钮回调
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) error {
	unlock := b.lockUser(query.From.ID)
	defer unlock()

	b.recordProfile(query.From)

	if query.Data != "exit_forward" || query.Message == nil {
		b.answerCallback(query.ID, "")
		return nil
	}

	chatID := query.Message.Chat.ID

	partnerID, existed := b.sessions.Exit(chatID)

	// 按钮所在消息的键盘撤掉，避免重复点击
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, query.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := b.api.Request(edit); err != nil {
		b.logger.Error("撤除按钮失败 ChatID=%d: %v", chatID, err)
	}

	b.sendMessageWithMarkup(chatID, "🚪 已退出双向传话模式", b.mainMenu(chatID))
	if existed && partnerID != 0 {
		b.sendMessageWithMarkup(partnerID, "🚪 对方已退出双向传话模式", b.mainMenu(partnerID))
	}

	b.answerCallback(query.ID, "会话已结束")
	return nil
}

// answerCallback 应答回调防止按钮转圈
func (b *Bot) answerCallback(callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("应答回调失败: %v", err)
	}
}
