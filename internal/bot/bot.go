package bot

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-baccarat-bot/internal/baccarat"
	"telegram-baccarat-bot/internal/config"
	"telegram-baccarat-bot/internal/database"
	"telegram-baccarat-bot/internal/https"
	"telegram-baccarat-bot/internal/ledger"
	"telegram-baccarat-bot/internal/logger"
	"telegram-baccarat-bot/internal/pool"
	"telegram-baccarat-bot/internal/session"
	"telegram-baccarat-bot/internal/watchdog"
)

// Bot Telegram机器人结构
type Bot struct {
	api         *tgbotapi.BotAPI
	db          *database.DB
	config      *config.Config
	logger      *logger.Logger
	ledger      *ledger.Ledger
	dealer      *baccarat.Dealer
	sessions    *session.Registry
	watchdog    *watchdog.Watchdog
	workerPool  *pool.WorkerPool
	rateLimiter *pool.RateLimiter
	userMutex   sync.Map // 用户级别的互斥锁，防止同一用户并发操作
}

// NewBot 创建新的机器人实例
func NewBot(cfg *config.Config, db *database.DB, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("创建机器人API失败: %v", err)
	}

	b := &Bot{
		api:         api,
		db:          db,
		config:      cfg,
		logger:      log,
		ledger:      ledger.New(cfg.InitialBalance),
		dealer:      baccarat.NewDealer(),
		sessions:    session.NewRegistry(cfg.AdminChatID, cfg.SessionTimeout, log),
		watchdog:    watchdog.New(cfg.HeartbeatInterval, cfg.WatchdogTimeout, log),
		workerPool:  pool.NewWorkerPool(0, 1000),
		rateLimiter: pool.NewRateLimiter(30, time.Second),
	}

	// 会话超时扫出通知：双方都要收到结束提示
	b.sessions.SetExpiredCallback(b.onSessionExpired)
	b.sessions.SetDisplacedCallback(b.onSessionDisplaced)

	return b, nil
}

// Start 启动机器人，阻塞运行直到更新流关闭
func (b *Bot) Start() error {
	b.logger.Info("机器人启动中...")

	b.workerPool.Start()
	b.sessions.StartSweeper(b.config.SweepInterval)
	b.watchdog.Start()

	// 上线提醒
	b.sendMessage(b.config.AdminChatID, "✅ 机器人已上线！")

	updates, err := b.updatesChan()
	if err != nil {
		return err
	}

	b.logger.Info("机器人已启动，用户名: %s", b.api.Self.UserName)

	for update := range updates {
		update := update
		// 每条更新都算一次活动，顺带刷新心跳
		b.watchdog.Beat()

		job := &pool.MessageJob{
			Handler: func() error {
				return b.handleUpdate(update)
			},
		}
		b.workerPool.Submit(job)
	}

	return nil
}

// updatesChan 按配置选择长轮询或Webhook模式
func (b *Bot) updatesChan() (tgbotapi.UpdatesChannel, error) {
	if !b.config.EnableWebhook {
		// 长轮询前先清掉可能残留的Webhook
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			b.logger.Error("删除Webhook失败: %v", err)
		}

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return b.api.GetUpdatesChan(u), nil
	}

	httpsManager := https.NewManager(&https.Config{
		Domain:    b.config.Domain,
		CacheDir:  b.config.CertCacheDir,
		Email:     b.config.AdminEmail,
		HTTPSPort: b.config.HTTPSPort,
	}, b.logger)

	if err := httpsManager.ValidateDomain(); err != nil {
		return nil, fmt.Errorf("Webhook域名配置无效: %v", err)
	}

	webhookURL := httpsManager.WebhookURL(b.config.BotToken)
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("构造Webhook配置失败: %v", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return nil, fmt.Errorf("设置Webhook失败: %v", err)
	}
	b.logger.Info("Webhook已设置: %s", webhookURL)

	updates := b.api.ListenForWebhook("/webhook/" + b.config.BotToken)

	httpsManager.StartHTTPRedirectServer()
	go func() {
		if err := httpsManager.StartWebhookServer(http.DefaultServeMux); err != nil {
			b.logger.Error("Webhook服务器退出: %v", err)
		}
	}()

	return updates, nil
}

// Stop 停止机器人
func (b *Bot) Stop() {
	b.logger.Info("机器人停止中...")

	// 掉线提醒
	b.sendMessage(b.config.AdminChatID, "❌ 机器人已掉线！")

	b.api.StopReceivingUpdates()
	b.sessions.Stop()
	b.watchdog.Stop()
	b.workerPool.Stop()
	b.rateLimiter.Stop()

	b.logger.Info("机器人已停止")
}

// handleUpdate 分发一条更新
func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("处理更新时发生panic: %v", r)
		}
	}()

	if update.CallbackQuery != nil {
		return b.handleCallbackQuery(update.CallbackQuery)
	}

	if update.Message != nil && update.Message.Text != "" {
		return b.handleMessage(update.Message)
	}

	return nil
}

// lockUser 获取用户级互斥锁：同一用户同一时刻只有一个在途操作
func (b *Bot) lockUser(userID int64) func() {
	mutex, _ := b.userMutex.LoadOrStore(userID, &sync.Mutex{})
	userMutex := mutex.(*sync.Mutex)
	userMutex.Lock()
	return userMutex.Unlock
}

// recordProfile 落库用户档案（每条消息触发upsert）
func (b *Bot) recordProfile(from *tgbotapi.User) {
	if from == nil {
		return
	}
	if err := b.db.UpsertUser(from.ID, from.UserName, from.FirstName); err != nil {
		b.logger.Error("记录用户档案失败 UserID=%d: %v", from.ID, err)
	}
}

// sendMessage 发送纯文本消息，发送失败只记日志不上抛
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.send(msg)
}

// sendMessageWithMarkup 发送带键盘的消息
func (b *Bot) sendMessageWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	b.send(msg)
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if !b.rateLimiter.Allow() {
		// 超出速率限制时短暂等待一个令牌
		time.Sleep(50 * time.Millisecond)
	}

	if _, err := b.api.Send(msg); err != nil {
		// 对方拉黑、网络抖动等都不应中断已提交的状态变更
		b.logger.LogTransportError(msg.ChatID, err)
	}
}

// replyTo 回复指定消息
func (b *Bot) replyTo(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	b.send(msg)
}

// getUserDisplay 获取传话前缀用的用户显示名
func (b *Bot) getUserDisplay(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	return fmt.Sprintf("用户%d", user.ID)
}

// onSessionExpired 会话超时扫出后的双方通知
func (b *Bot) onSessionExpired(userID, partnerID int64) {
	b.sendMessageWithMarkup(userID, "⏰ 会话超时，已退出双向传话模式", b.mainMenu(userID))

	// 等待态超时没有对端，也要给管理员一个交代
	notifyID := partnerID
	if notifyID == 0 {
		notifyID = b.config.AdminChatID
	}
	if notifyID != userID {
		b.sendMessageWithMarkup(notifyID, fmt.Sprintf("⏰ 用户 %d 的会话超时已结束", userID), b.mainMenu(notifyID))
	}
}

// onSessionDisplaced 配对被新会话顶掉时的通知
func (b *Bot) onSessionDisplaced(userID int64) {
	b.sendMessageWithMarkup(userID, "🚪 对方已退出双向传话模式", b.mainMenu(userID))
}
