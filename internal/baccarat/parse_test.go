package baccarat

import (
	"testing"

	"telegram-baccarat-bot/internal/models"
)

func TestParseBets(t *testing.T) {
	bets := ParseBets("闲100 超620 庄对30")

	if len(bets) != 3 {
		t.Fatalf("期望解析出3项下注，实际得到%d项", len(bets))
	}

	if bets[models.BetPlayer] != 100 {
		t.Errorf("闲注解析错误，期望100，实际%d", bets[models.BetPlayer])
	}
	if bets[models.BetSuperSix] != 20 {
		t.Errorf("超6注解析错误，期望20，实际%d", bets[models.BetSuperSix])
	}
	if bets[models.BetBankerPair] != 30 {
		t.Errorf("庄对注解析错误，期望30，实际%d", bets[models.BetBankerPair])
	}
}

func TestParseBetsPrefixOverlap(t *testing.T) {
	// "庄对30"先命中"庄"前缀但金额解析失败，必须继续命中"庄对"
	bets := ParseBets("庄对30")

	if len(bets) != 1 {
		t.Fatalf("期望解析出1项下注，实际得到%d项", len(bets))
	}
	if bets[models.BetBankerPair] != 30 {
		t.Errorf("庄对注解析错误，期望30，实际%d", bets[models.BetBankerPair])
	}
	if _, ok := bets[models.BetBanker]; ok {
		t.Error("不应解析出庄注")
	}
}

func TestParseBetsSkipsBadTokens(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"空串", ""},
		{"未知标签", "天100"},
		{"非数字金额", "闲abc"},
		{"零金额", "闲0"},
		{"负金额", "闲-50"},
		{"纯标签", "闲"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bets := ParseBets(tc.text)
			if len(bets) != 0 {
				t.Errorf("坏token应被静默丢弃，实际解析出%d项", len(bets))
			}
		})
	}
}

func TestParseBetsMixedGoodAndBad(t *testing.T) {
	bets := ParseBets("闲100 天50 庄abc 小20")

	if len(bets) != 2 {
		t.Fatalf("期望只保留2项有效下注，实际得到%d项", len(bets))
	}
	if bets[models.BetPlayer] != 100 || bets[models.BetSmall] != 20 {
		t.Errorf("有效token解析错误: %v", bets)
	}
}

func TestParseBetsDuplicateKindLastWins(t *testing.T) {
	bets := ParseBets("闲100 闲200")

	if len(bets) != 1 {
		t.Fatalf("重复下注类型应覆盖而非累加，实际得到%d项", len(bets))
	}
	if bets[models.BetPlayer] != 200 {
		t.Errorf("重复类型应取最后一次，期望200，实际%d", bets[models.BetPlayer])
	}
}

func TestTotalStake(t *testing.T) {
	bets := ParseBets("闲100 小50")

	if total := bets.TotalStake(); total != 150 {
		t.Errorf("总注计算错误，期望150，实际%d", total)
	}
}
