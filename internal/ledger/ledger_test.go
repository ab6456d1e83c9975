package ledger

import (
	"testing"
)

func TestLazyInit(t *testing.T) {
	l := New(1000)

	balance := l.Balance(123, "alice")
	if balance != 1000 {
		t.Fatalf("首次访问应自动建账为初始余额1000，实际%d", balance)
	}
}

func TestCreditByUsername(t *testing.T) {
	l := New(1000)
	l.Balance(123, "alice")

	newBalance, err := l.CreditByUsername("alice", 500)
	if err != nil {
		t.Fatalf("按用户名加余额失败: %v", err)
	}
	if newBalance != 1500 {
		t.Errorf("加额后余额错误，期望1500，实际%d", newBalance)
	}

	// 负数增量支持扣款
	newBalance, err = l.CreditByUsername("alice", -200)
	if err != nil {
		t.Fatalf("按用户名扣余额失败: %v", err)
	}
	if newBalance != 1300 {
		t.Errorf("扣额后余额错误，期望1300，实际%d", newBalance)
	}
}

func TestCreditUnknownUsername(t *testing.T) {
	l := New(1000)
	l.Balance(123, "alice")

	if _, err := l.CreditByUsername("bob", 100); err == nil {
		t.Fatal("未建账的用户名应返回查找失败")
	}

	// 任何人的余额都不应改变
	if balance := l.Balance(123, "alice"); balance != 1000 {
		t.Errorf("查找失败后余额不应变化，期望1000，实际%d", balance)
	}
}

func TestSettleRejectsOverdraft(t *testing.T) {
	l := New(50)

	called := false
	_, err := l.Settle(123, "alice", 100, func(balance int64) (int64, error) {
		called = true
		return 0, nil
	})

	if err == nil {
		t.Fatal("总注超过余额应拒绝整局")
	}
	if called {
		t.Error("拒绝的局不应执行发牌结算回调")
	}
	if balance := l.Balance(123, "alice"); balance != 50 {
		t.Errorf("拒绝后余额应保持不变，期望50，实际%d", balance)
	}
}

func TestSettleArithmetic(t *testing.T) {
	l := New(1000)

	// 总注150，派彩325
	newBalance, err := l.Settle(123, "alice", 150, func(balance int64) (int64, error) {
		if balance != 1000 {
			t.Errorf("结算回调应收到扣注前余额1000，实际%d", balance)
		}
		return 325, nil
	})
	if err != nil {
		t.Fatalf("结算失败: %v", err)
	}
	if newBalance != 1175 {
		t.Errorf("结算后余额错误，期望1175，实际%d", newBalance)
	}
}

func TestSettleExactBalanceAllowed(t *testing.T) {
	l := New(100)

	// 总注恰好等于余额：允许
	newBalance, err := l.Settle(123, "alice", 100, func(balance int64) (int64, error) {
		return 0, nil
	})
	if err != nil {
		t.Fatalf("总注等于余额应被允许: %v", err)
	}
	if newBalance != 0 {
		t.Errorf("全输后余额应为0，实际%d", newBalance)
	}
}

func TestUsernameRefresh(t *testing.T) {
	l := New(1000)
	l.Balance(123, "alice")

	// 用户改名后，按新名可查到，旧名查不到
	l.Balance(123, "alice2")

	if _, err := l.CreditByUsername("alice2", 100); err != nil {
		t.Errorf("改名后应按新用户名查到账目: %v", err)
	}
	if _, err := l.CreditByUsername("alice", 100); err == nil {
		t.Error("旧用户名不应再查到账目")
	}
}
