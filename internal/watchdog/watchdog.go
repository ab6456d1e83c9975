package watchdog

import (
	"os"
	"sync"
	"time"

	"telegram-baccarat-bot/internal/logger"
)

// Watchdog 进程活性监控：心跳协程定期刷新时间戳，
// 看门狗协程检测心跳是否停滞，停滞超过阈值直接退出进程，
// 由外部进程管理器负责拉起重启。
type Watchdog struct {
	mutex         sync.Mutex
	lastHeartbeat time.Time

	heartbeatInterval time.Duration
	checkInterval     time.Duration
	timeout           time.Duration
	logger            *logger.Logger

	now  func() time.Time
	exit func(code int)

	stop     chan struct{}
	stopOnce sync.Once
}

func New(heartbeatInterval, timeout time.Duration, log *logger.Logger) *Watchdog {
	return &Watchdog{
		lastHeartbeat:     time.Now(),
		heartbeatInterval: heartbeatInterval,
		checkInterval:     timeout / 2,
		timeout:           timeout,
		logger:            log,
		now:               time.Now,
		exit:              os.Exit,
		stop:              make(chan struct{}),
	}
}

// Beat 刷新心跳时间戳
func (w *Watchdog) Beat() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.lastHeartbeat = w.now()
}

// Stale 判断心跳是否已停滞超过阈值
func (w *Watchdog) Stale() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.now().Sub(w.lastHeartbeat) > w.timeout
}

// Start 启动心跳刷新与停滞检测两个后台协程
func (w *Watchdog) Start() {
	go w.heartbeatLoop()
	go w.watchLoop()
}

func (w *Watchdog) heartbeatLoop() {
	ticker := time.NewTicker(w.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Beat()
		case <-w.stop:
			return
		}
	}
}

func (w *Watchdog) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if w.Stale() {
				// 有意的let-it-crash：进程内不做恢复，退出交给托管平台重启
				if w.logger != nil {
					w.logger.Error("掉线检测触发，进程即将退出等待重启")
				}
				w.exit(1)
				return
			}
		case <-w.stop:
			return
		}
	}
}

// Stop 停止监控协程
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}
