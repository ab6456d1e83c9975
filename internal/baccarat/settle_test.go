package baccarat

import (
	"testing"

	"telegram-baccarat-bot/internal/models"
)

func TestDealerDealsFourCards(t *testing.T) {
	dealer := NewDealer()

	for i := 0; i < 100; i++ {
		deal := dealer.Deal()
		if len(deal.PlayerCards) != 2 || len(deal.BankerCards) != 2 {
			t.Fatalf("每局应为闲庄各2张牌，实际闲%d张庄%d张", len(deal.PlayerCards), len(deal.BankerCards))
		}
		for _, c := range append(deal.PlayerCards, deal.BankerCards...) {
			if c < 1 || c > 9 {
				t.Fatalf("牌面应在1-9之间，实际%d", c)
			}
		}
	}
}

func TestResolveOutcome(t *testing.T) {
	cases := []struct {
		name    string
		player  []int
		banker  []int
		outcome models.Outcome
	}{
		{"闲赢", []int{2, 3}, []int{1, 2}, models.OutcomePlayer},
		{"庄赢", []int{1, 2}, []int{4, 4}, models.OutcomeBanker},
		{"和局", []int{2, 3}, []int{9, 6}, models.OutcomeTie},
		{"点数取模", []int{9, 8}, []int{1, 1}, models.OutcomePlayer}, // 17%10=7点 对 2点
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deal := ResolveDeal(tc.player, tc.banker)
			if deal.Outcome != tc.outcome {
				t.Errorf("结果判定错误，期望%s，实际%s", tc.outcome, deal.Outcome)
			}
		})
	}
}

func TestSuperSixTwoCards(t *testing.T) {
	// 庄家两张牌合计6点且庄赢：超6命中，赔率12倍
	deal := ResolveDeal([]int{1, 2}, []int{2, 4})

	if deal.Outcome != models.OutcomeBanker {
		t.Fatalf("期望庄赢，实际%s", deal.Outcome)
	}
	if !deal.SuperSix {
		t.Fatal("庄家6点获胜应命中超6")
	}
	if deal.SuperSixPay != 12 {
		t.Errorf("两张牌的超6赔率应为12倍，实际%d", deal.SuperSixPay)
	}
}

func TestSuperSixNotOnBankerLoss(t *testing.T) {
	// 庄家6点但闲家更大：超6不命中
	deal := ResolveDeal([]int{8, 9}, []int{2, 4})

	if deal.SuperSix {
		t.Error("庄家未获胜时超6不应命中")
	}
}

func TestSettleMultipleBets(t *testing.T) {
	// 余额1000，下注闲100+小50；闲5点庄3点→闲赢。
	// 闲赢100（返还200），小必赢 floor(50*1.5)=75（返还125）。
	// 新余额 = 1000 - 150 + 200 + 125 = 1175
	bets := Bets{models.BetPlayer: 100, models.BetSmall: 50}
	deal := ResolveDeal([]int{2, 3}, []int{1, 2})

	payout, results := Settle(bets, deal)

	if payout != 325 {
		t.Errorf("派彩总额错误，期望325，实际%d", payout)
	}

	balance := int64(1000) - bets.TotalStake() + payout
	if balance != 1175 {
		t.Errorf("结算后余额错误，期望1175，实际%d", balance)
	}

	if len(results) != 2 {
		t.Fatalf("期望2项明细，实际%d项", len(results))
	}
	for _, r := range results {
		if !r.Win {
			t.Errorf("注项[%s]应为赢", r.Kind)
		}
	}
}

func TestSettleBankerCommission(t *testing.T) {
	// 庄赢抽水5%：100注赢 floor(100*0.95)=95
	bets := Bets{models.BetBanker: 100}
	deal := ResolveDeal([]int{1, 2}, []int{4, 5})

	payout, results := Settle(bets, deal)

	if results[0].Gain != 95 {
		t.Errorf("庄注净赢利错误，期望95，实际%d", results[0].Gain)
	}
	if payout != 195 {
		t.Errorf("派彩总额错误，期望195，实际%d", payout)
	}
}

func TestSettleTieAndPairs(t *testing.T) {
	// 和局8倍；闲对庄对各11倍
	bets := Bets{
		models.BetTie:        10,
		models.BetPlayerPair: 10,
		models.BetBankerPair: 10,
	}
	deal := ResolveDeal([]int{4, 4}, []int{4, 4}) // 双方8点和局，且双方成对

	payout, results := Settle(bets, deal)

	expected := map[models.BetKind]int64{
		models.BetTie:        80,
		models.BetPlayerPair: 110,
		models.BetBankerPair: 110,
	}
	for _, r := range results {
		if !r.Win {
			t.Errorf("注项[%s]应为赢", r.Kind)
			continue
		}
		if r.Gain != expected[r.Kind] {
			t.Errorf("注项[%s]净赢利错误，期望%d，实际%d", r.Kind, expected[r.Kind], r.Gain)
		}
	}

	// 3项全赢：净赢利300 + 返还本金30
	if payout != 330 {
		t.Errorf("派彩总额错误，期望330，实际%d", payout)
	}
}

func TestSmallAlwaysWinsBigAlwaysLoses(t *testing.T) {
	// 固定发4张牌的规则下，小注必赢1.5倍，大注必输
	dealer := NewDealer()
	bets := Bets{models.BetBig: 100, models.BetSmall: 100}

	for i := 0; i < 50; i++ {
		deal := dealer.Deal()
		_, results := Settle(bets, deal)

		for _, r := range results {
			switch r.Kind {
			case models.BetSmall:
				if !r.Win || r.Gain != 150 {
					t.Fatalf("小注应必赢150，实际win=%v gain=%d", r.Win, r.Gain)
				}
			case models.BetBig:
				if r.Win {
					t.Fatal("大注在4张牌规则下不应获胜")
				}
			}
		}
	}
}

func TestSettleFloorTruncation(t *testing.T) {
	// floor在逐项计算时应用：小注 floor(33*1.5)=49
	bets := Bets{models.BetSmall: 33}
	deal := ResolveDeal([]int{1, 2}, []int{3, 4})

	_, results := Settle(bets, deal)

	if results[0].Gain != 49 {
		t.Errorf("小注取整错误，期望49，实际%d", results[0].Gain)
	}
}

func TestSettleDeterministicDealer(t *testing.T) {
	// 注入固定抽牌序列验证发牌顺序：闲两张在前，庄两张在后
	cards := []int{2, 3, 1, 2}
	idx := 0
	dealer := NewDealerWithDraw(func() int {
		c := cards[idx]
		idx++
		return c
	})

	deal := dealer.Deal()

	if deal.PlayerCards[0] != 2 || deal.PlayerCards[1] != 3 {
		t.Errorf("闲家牌错误: %v", deal.PlayerCards)
	}
	if deal.BankerCards[0] != 1 || deal.BankerCards[1] != 2 {
		t.Errorf("庄家牌错误: %v", deal.BankerCards)
	}
	if deal.Outcome != models.OutcomePlayer {
		t.Errorf("期望闲赢，实际%s", deal.Outcome)
	}
}
