package baccarat

import (
	"telegram-baccarat-bot/internal/models"
	"telegram-baccarat-bot/internal/utils"
)

// Dealer 发牌器。牌面为1-9的抽象点数，均匀独立抽取，
// 不建模真实牌靴，也没有补第三张牌的规则。
type Dealer struct {
	draw func() int
}

// NewDealer 创建使用安全随机源的发牌器
func NewDealer() *Dealer {
	return &Dealer{
		draw: func() int {
			n, err := utils.SecureRandomInt(9)
			if err != nil {
				// 随机源不可用时退回固定牌面，不让整局崩溃
				return 1
			}
			return int(n) + 1
		},
	}
}

// NewDealerWithDraw 注入自定义抽牌函数（测试用）
func NewDealerWithDraw(draw func() int) *Dealer {
	return &Dealer{draw: draw}
}

// Deal 发一局牌并判定结果
func (d *Dealer) Deal() *models.Deal {
	deal := &models.Deal{
		PlayerCards: []int{d.draw(), d.draw()},
		BankerCards: []int{d.draw(), d.draw()},
	}

	resolve(deal)
	return deal
}

// resolve 判定主结果与超6
func resolve(deal *models.Deal) {
	playerPoint := deal.PlayerPoint()
	bankerPoint := deal.BankerPoint()

	switch {
	case playerPoint > bankerPoint:
		deal.Outcome = models.OutcomePlayer
	case playerPoint < bankerPoint:
		deal.Outcome = models.OutcomeBanker
	default:
		deal.Outcome = models.OutcomeTie
	}

	// 超6：庄赢且庄家6点。庄家三张牌赔20倍，两张赔12倍。
	// 本引擎不补第三张牌，三张分支实际到不了，保留赔率表原样。
	if deal.Outcome == models.OutcomeBanker && bankerPoint == 6 {
		deal.SuperSix = true
		if len(deal.BankerCards) == 3 {
			deal.SuperSixPay = 20
		} else {
			deal.SuperSixPay = 12
		}
	}
}

// ResolveDeal 对外暴露的结果判定（测试构造固定牌局时使用）
func ResolveDeal(playerCards, bankerCards []int) *models.Deal {
	deal := &models.Deal{
		PlayerCards: playerCards,
		BankerCards: bankerCards,
	}
	resolve(deal)
	return deal
}
