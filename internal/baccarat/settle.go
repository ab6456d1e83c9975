package baccarat

import (
	"telegram-baccarat-bot/internal/models"
)

// KindResult 单个注项的结算结果
type KindResult struct {
	Kind   models.BetKind
	Amount int64
	Win    bool
	Gain   int64 // 净赢利，不含返还本金
}

// settleOrder 结算明细的输出顺序
var settleOrder = []models.BetKind{
	models.BetPlayer,
	models.BetBanker,
	models.BetTie,
	models.BetPlayerPair,
	models.BetBankerPair,
	models.BetSuperSix,
	models.BetBig,
	models.BetSmall,
}

// Settle 按固定赔率表逐项结算。返回派彩总额（赢项的净赢利+返还本金之和）
// 与逐项明细。输项本金已在开局统一扣除，此处不再处理。
func Settle(bets Bets, deal *models.Deal) (int64, []KindResult) {
	var payout int64
	results := make([]KindResult, 0, len(bets))

	for _, kind := range settleOrder {
		amount, ok := bets[kind]
		if !ok {
			continue
		}

		win, gain := settleKind(kind, amount, deal)
		if win {
			payout += gain + amount
		}

		results = append(results, KindResult{
			Kind:   kind,
			Amount: amount,
			Win:    win,
			Gain:   gain,
		})
	}

	return payout, results
}

// settleKind 单项赔率表。小数赔率向下取整。
func settleKind(kind models.BetKind, amount int64, deal *models.Deal) (bool, int64) {
	switch kind {
	case models.BetPlayer:
		if deal.Outcome == models.OutcomePlayer {
			return true, amount
		}
	case models.BetBanker:
		if deal.Outcome == models.OutcomeBanker {
			// 庄赢抽水5%
			return true, int64(float64(amount) * 0.95)
		}
	case models.BetTie:
		if deal.Outcome == models.OutcomeTie {
			return true, amount * 8
		}
	case models.BetPlayerPair:
		if deal.PlayerCards[0] == deal.PlayerCards[1] {
			return true, amount * 11
		}
	case models.BetBankerPair:
		if deal.BankerCards[0] == deal.BankerCards[1] {
			return true, amount * 11
		}
	case models.BetSuperSix:
		if deal.SuperSix {
			return true, amount * deal.SuperSixPay
		}
	case models.BetBig:
		// 只有补牌才可能出现5或6张，当前规则下必输
		if total := deal.TotalCards(); total == 5 || total == 6 {
			return true, int64(float64(amount) * 0.54)
		}
	case models.BetSmall:
		// 固定发4张牌，当前规则下必赢
		if deal.TotalCards() == 4 {
			return true, int64(float64(amount) * 1.5)
		}
	}

	return false, 0
}
