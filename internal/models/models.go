package models

import (
	"time"
)

// User 用户档案模型（持久化到SQLite）
type User struct {
	ID       int64     `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
	Name     string    `json:"name" db:"name"`
	FirstTs  time.Time `json:"first_ts" db:"first_ts"`
	LastTs   time.Time `json:"last_ts" db:"last_ts"`
}

// BetKind 下注类型
type BetKind string

const (
	BetPlayer     BetKind = "player"
	BetBanker     BetKind = "banker"
	BetTie        BetKind = "tie"
	BetPlayerPair BetKind = "player_pair"
	BetBankerPair BetKind = "banker_pair"
	BetSuperSix   BetKind = "super_six"
	BetBig        BetKind = "big"
	BetSmall      BetKind = "small"
)

// Outcome 一局的主结果
type Outcome string

const (
	OutcomePlayer Outcome = "player"
	OutcomeBanker Outcome = "banker"
	OutcomeTie    Outcome = "tie"
)

// Deal 一局的发牌结果
type Deal struct {
	PlayerCards []int   `json:"player_cards"`
	BankerCards []int   `json:"banker_cards"`
	Outcome     Outcome `json:"outcome"`
	SuperSix    bool    `json:"super_six"`
	SuperSixPay int64   `json:"super_six_pay"` // 超6赔率倍数，未中为0
}

// PlayerPoint 闲家点数
func (d *Deal) PlayerPoint() int {
	return sum(d.PlayerCards) % 10
}

// BankerPoint 庄家点数
func (d *Deal) BankerPoint() int {
	return sum(d.BankerCards) % 10
}

// TotalCards 双方合计发牌张数
func (d *Deal) TotalCards() int {
	return len(d.PlayerCards) + len(d.BankerCards)
}

func sum(cards []int) int {
	total := 0
	for _, c := range cards {
		total += c
	}
	return total
}

// SessionState 传话会话状态
type SessionState string

const (
	SessionStateNone    SessionState = "none"    // 无会话
	SessionStatePending SessionState = "pending" // 已请求，等待首条内容
	SessionStatePaired  SessionState = "paired"  // 已配对，双向传话中
)
