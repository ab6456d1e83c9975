package watchdog

import (
	"testing"
	"time"
)

func TestNotStaleAfterBeat(t *testing.T) {
	w := New(15*time.Second, 40*time.Second, nil)

	now := time.Now()
	w.now = func() time.Time { return now }
	w.Beat()

	now = now.Add(39 * time.Second)
	if w.Stale() {
		t.Fatal("阈值内不应判定为停滞")
	}
}

func TestStaleAfterTimeout(t *testing.T) {
	w := New(15*time.Second, 40*time.Second, nil)

	now := time.Now()
	w.now = func() time.Time { return now }
	w.Beat()

	now = now.Add(41 * time.Second)
	if !w.Stale() {
		t.Fatal("超过阈值应判定为停滞")
	}
}

func TestBeatResetsStaleness(t *testing.T) {
	w := New(15*time.Second, 40*time.Second, nil)

	now := time.Now()
	w.now = func() time.Time { return now }
	w.Beat()

	now = now.Add(41 * time.Second)
	w.Beat()

	if w.Stale() {
		t.Fatal("刷新心跳后不应再判定为停滞")
	}
}

func TestWatchLoopExitsOnStale(t *testing.T) {
	w := New(10*time.Millisecond, 20*time.Millisecond, nil)
	w.checkInterval = 5 * time.Millisecond

	exited := make(chan int, 1)
	w.exit = func(code int) {
		select {
		case exited <- code:
		default:
		}
	}

	// 只启动检测协程，不启动心跳刷新，模拟事件循环卡死
	go w.watchLoop()
	defer w.Stop()

	select {
	case code := <-exited:
		if code != 1 {
			t.Errorf("停滞退出码应为1，实际%d", code)
		}
	case <-time.After(time.Second):
		t.Fatal("停滞检测未在预期时间内触发退出")
	}
}
