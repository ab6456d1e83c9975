package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"telegram-baccarat-bot/internal/bot"
	"telegram-baccarat-bot/internal/config"
	"telegram-baccarat-bot/internal/database"
	"telegram-baccarat-bot/internal/logger"
)

func main() {
	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: 无法加载.env文件: %v", err)
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("加载配置失败:", err)
	}

	// 初始化日志
	appLogger, err := logger.NewLogger("./logs")
	if err != nil {
		log.Fatal("初始化日志失败:", err)
	}
	defer appLogger.Close()

	// 初始化数据库
	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("初始化数据库失败:", err)
	}
	defer db.Close()

	// 创建机器人实例
	telegramBot, err := bot.NewBot(cfg, db, appLogger)
	if err != nil {
		log.Fatal("创建机器人失败:", err)
	}

	// 启动机器人
	go func() {
		if err := telegramBot.Start(); err != nil {
			log.Fatal("启动机器人失败:", err)
		}
	}()

	appLogger.Info("🎴 百家乐传话机器人已启动")
	appLogger.Info("📊 配置信息:")
	appLogger.Info("   - 数据库: %s", cfg.DatabaseURL)
	appLogger.Info("   - 会话超时: %v", cfg.SessionTimeout)
	appLogger.Info("   - 扫描间隔: %v", cfg.SweepInterval)
	appLogger.Info("   - 初始余额: %d", cfg.InitialBalance)

	// 等待中断信号
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	appLogger.Info("🛑 正在关闭机器人...")
	telegramBot.Stop()
	appLogger.Info("✅ 机器人已关闭")
}
