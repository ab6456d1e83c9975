package session

import (
	"sync"
	"time"

	"telegram-baccarat-bot/internal/logger"
	"telegram-baccarat-bot/internal/models"
)

// entry 单侧会话状态
type entry struct {
	state        models.SessionState
	partnerID    int64
	lastActivity time.Time
}

// RouteAction 一条文本消息在会话层的处理结果
type RouteAction int

const (
	// RouteNone 发送者不在会话中，交给上层继续处理
	RouteNone RouteAction = iota
	// RoutePairFirst 发送者由等待态转入配对态，消息应作为首条传话转发
	RoutePairFirst
	// RouteRelay 发送者已在配对态，消息应转发给对端
	RouteRelay
)

// Registry 双向传话配对表。严格1:1配对：普通用户只与管理员配对，
// 管理员同一时刻只与一名用户配对，新配对顶掉旧配对。
// 所有状态在一把互斥锁内维护，前台消息处理与后台超时扫描串行化。
type Registry struct {
	mutex   sync.Mutex
	entries map[int64]*entry

	adminID int64
	timeout time.Duration
	logger  *logger.Logger

	// 超时扫出回调：通知双方会话已超时结束
	onExpired func(userID, partnerID int64)
	// 被新配对顶掉的一方的通知回调
	onDisplaced func(userID int64)

	now func() time.Time

	sweepTicker *time.Ticker
	stopSweep   chan struct{}
	stopOnce    sync.Once
}

func NewRegistry(adminID int64, timeout time.Duration, log *logger.Logger) *Registry {
	return &Registry{
		entries:   make(map[int64]*entry),
		adminID:   adminID,
		timeout:   timeout,
		logger:    log,
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}
}

// SetExpiredCallback 设置超时扫出回调
func (r *Registry) SetExpiredCallback(callback func(userID, partnerID int64)) {
	r.onExpired = callback
}

// SetDisplacedCallback 设置配对被顶替时的通知回调
func (r *Registry) SetDisplacedCallback(callback func(userID int64)) {
	r.onDisplaced = callback
}

// State 查询用户当前会话状态
func (r *Registry) State(userID int64) models.SessionState {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if e, ok := r.entries[userID]; ok {
		return e.state
	}
	return models.SessionStateNone
}

// Request 用户发起传话请求，进入等待态。
// 已在配对中的用户重新发起时，先退出原会话再进入等待。
func (r *Registry) Request(userID int64) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if e, ok := r.entries[userID]; ok && e.state == models.SessionStatePaired {
		r.removePairLocked(userID, e.partnerID)
	}

	r.entries[userID] = &entry{
		state:        models.SessionStatePending,
		lastActivity: r.now(),
	}

	if r.logger != nil {
		r.logger.LogSessionAction(userID, "request", "进入传话等待态")
	}
}

// Route 判定一条文本消息的会话去向，并刷新活跃时间。
// 返回动作与对端ID（RouteNone时对端为0）。
func (r *Registry) Route(userID int64) (RouteAction, int64) {
	r.mutex.Lock()

	e, ok := r.entries[userID]
	if !ok {
		r.mutex.Unlock()
		return RouteNone, 0
	}

	now := r.now()

	switch e.state {
	case models.SessionStatePending:
		// 管理员若已与他人配对，旧配对被顶掉
		displaced := int64(0)
		if adminEntry, ok := r.entries[r.adminID]; ok && adminEntry.state == models.SessionStatePaired {
			displaced = adminEntry.partnerID
			r.removePairLocked(r.adminID, displaced)
		}

		r.entries[userID] = &entry{state: models.SessionStatePaired, partnerID: r.adminID, lastActivity: now}
		r.entries[r.adminID] = &entry{state: models.SessionStatePaired, partnerID: userID, lastActivity: now}

		callback := r.onDisplaced
		r.mutex.Unlock()

		if displaced != 0 && displaced != userID && callback != nil {
			callback(displaced)
		}

		if r.logger != nil {
			r.logger.LogSessionAction(userID, "pair", "进入双向传话模式")
		}
		return RoutePairFirst, r.adminID

	case models.SessionStatePaired:
		partnerID := e.partnerID
		e.lastActivity = now
		// 对端可能已不在（防御残留的单侧状态），转发前确认
		if partner, ok := r.entries[partnerID]; ok && partner.state == models.SessionStatePaired {
			partner.lastActivity = now
			r.mutex.Unlock()
			return RouteRelay, partnerID
		}
		delete(r.entries, userID)
		r.mutex.Unlock()
		return RouteNone, 0
	}

	r.mutex.Unlock()
	return RouteNone, 0
}

// Exit 显式退出会话，双侧状态一并清除。幂等：重复退出是空操作。
// 返回对端ID（无对端或无会话时为0）与是否确有会话被退出。
func (r *Registry) Exit(userID int64) (int64, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	e, ok := r.entries[userID]
	if !ok {
		return 0, false
	}

	partnerID := int64(0)
	if e.state == models.SessionStatePaired {
		partnerID = e.partnerID
	}
	r.removePairLocked(userID, partnerID)

	if r.logger != nil {
		r.logger.LogSessionAction(userID, "exit", "退出双向传话模式")
	}
	return partnerID, true
}

// removePairLocked 清除一对会话的双侧状态，调用方必须已持有锁
func (r *Registry) removePairLocked(userID, partnerID int64) {
	delete(r.entries, userID)
	if partnerID != 0 {
		if partner, ok := r.entries[partnerID]; ok && partner.partnerID == userID {
			delete(r.entries, partnerID)
		}
	}
}

// Sweep 扫描并清除全部空闲超时的会话，逐个触发超时回调。
// 返回被扫出的用户ID列表。
func (r *Registry) Sweep() []int64 {
	r.mutex.Lock()

	now := r.now()
	type expired struct {
		userID    int64
		partnerID int64
	}
	var victims []expired

	for userID, e := range r.entries {
		if now.Sub(e.lastActivity) > r.timeout {
			partnerID := int64(0)
			if e.state == models.SessionStatePaired {
				partnerID = e.partnerID
			}
			// 回调统一以用户侧为主体，管理员作为对端
			if userID == r.adminID && partnerID != 0 {
				userID, partnerID = partnerID, userID
			}
			victims = append(victims, expired{userID: userID, partnerID: partnerID})
		}
	}

	swept := make([]int64, 0, len(victims))
	notify := make([]expired, 0, len(victims))
	for _, v := range victims {
		// 配对双方各有一条记录，清除一侧时对端记录一并移除
		if _, ok := r.entries[v.userID]; !ok {
			continue
		}
		r.removePairLocked(v.userID, v.partnerID)
		swept = append(swept, v.userID)
		notify = append(notify, v)
	}

	callback := r.onExpired
	r.mutex.Unlock()

	if callback != nil {
		for _, v := range notify {
			callback(v.userID, v.partnerID)
		}
	}

	if len(swept) > 0 && r.logger != nil {
		r.logger.Info("会话超时扫描完成，清除了 %d 个会话", len(swept))
	}

	return swept
}

// StartSweeper 启动后台超时扫描
func (r *Registry) StartSweeper(interval time.Duration) {
	r.sweepTicker = time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-r.sweepTicker.C:
				r.Sweep()
			case <-r.stopSweep:
				r.sweepTicker.Stop()
				return
			}
		}
	}()
}

// Stop 停止后台扫描
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopSweep)
	})
}
