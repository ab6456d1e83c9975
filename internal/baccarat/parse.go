package baccarat

import (
	"strconv"
	"strings"

	"telegram-baccarat-bot/internal/models"
)

// Bets 一局的下注集合：同一类型重复出现时后者覆盖前者
type Bets map[models.BetKind]int64

// betLabel 下注标签表。顺序敏感："庄"在"庄对"之前尝试，
// 前缀命中但金额解析失败时继续尝试后续标签。
var betLabels = []struct {
	label string
	kind  models.BetKind
}{
	{"闲", models.BetPlayer},
	{"庄", models.BetBanker},
	{"和", models.BetTie},
	{"庄对", models.BetBankerPair},
	{"闲对", models.BetPlayerPair},
	{"超6", models.BetSuperSix},
	{"大", models.BetBig},
	{"小", models.BetSmall},
}

// ParseBets 解析自由文本下注串，如 "闲100 超620 庄对30"。
// 无法解析的token静默丢弃，不报错；解析结果可能为空集。
func ParseBets(text string) Bets {
	bets := make(Bets)

	for _, part := range strings.Fields(text) {
		for _, bl := range betLabels {
			if !strings.HasPrefix(part, bl.label) {
				continue
			}
			amount, err := strconv.ParseInt(part[len(bl.label):], 10, 64)
			if err != nil || amount <= 0 {
				continue
			}
			bets[bl.kind] = amount
		}
	}

	return bets
}

// TotalStake 全部注额合计
func (b Bets) TotalStake() int64 {
	var total int64
	for _, amount := range b {
		total += amount
	}
	return total
}
