package ledger

import (
	"fmt"
	"sync"
)

// Entry 一名用户的下注账本状态
type Entry struct {
	Balance  int64  `json:"balance"`
	Username string `json:"username"`
}

// Ledger 内存账本：首次访问时惰性建账，进程生命周期内常驻。
// 所有读写都在一把互斥锁内完成，保证同一用户的结算不会并发交错。
type Ledger struct {
	mutex          sync.Mutex
	entries        map[int64]*Entry
	initialBalance int64
}

func New(initialBalance int64) *Ledger {
	return &Ledger{
		entries:        make(map[int64]*Entry),
		initialBalance: initialBalance,
	}
}

// touch 惰性建账，调用方必须已持有锁
func (l *Ledger) touch(userID int64, username string) *Entry {
	entry, ok := l.entries[userID]
	if !ok {
		entry = &Entry{Balance: l.initialBalance, Username: username}
		l.entries[userID] = entry
		return entry
	}
	// 用户名可能变化，刷新缓存供 /add 按名查找
	if username != "" {
		entry.Username = username
	}
	return entry
}

// Balance 查询余额，首次查询自动建账
func (l *Ledger) Balance(userID int64, username string) int64 {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.touch(userID, username).Balance
}

// CreditByUsername 管理员按用户名加减余额。用户名未建账时返回错误。
// 线性扫描全部账目，个人机器人规模下可接受。
func (l *Ledger) CreditByUsername(username string, delta int64) (int64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, entry := range l.entries {
		if entry.Username == username {
			entry.Balance += delta
			return entry.Balance, nil
		}
	}

	return 0, fmt.Errorf("未找到用户 %s", username)
}

// Settle 在一次临界区内完成一局结算：校验总注、先扣后赔。
// settle 回调收到扣注前的余额，返回派彩总额（含返还本金）；
// 回调返回错误时整局拒绝，余额不变。
func (l *Ledger) Settle(userID int64, username string, totalStake int64, settle func(balance int64) (int64, error)) (int64, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	entry := l.touch(userID, username)

	if totalStake > entry.Balance {
		return entry.Balance, fmt.Errorf("余额不足～")
	}

	payout, err := settle(entry.Balance)
	if err != nil {
		return entry.Balance, err
	}

	entry.Balance = entry.Balance - totalStake + payout
	return entry.Balance, nil
}
