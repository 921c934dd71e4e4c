package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/yiyuan-9527/YiyuanBlog/internal/model"
)

func TestCreateStorageAccount_FreeDefaults(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)

	account := mustGetAccount(t, user.ID)
	if account.PlanID != model.PlanFree {
		t.Fatalf("expected plan FREE, got %s", account.PlanID)
	}
	if account.UsedBytes != 0 {
		t.Fatalf("expected used 0, got %d", account.UsedBytes)
	}
	if account.LimitBytes != 50*GiB {
		t.Fatalf("expected limit 50GiB, got %d", account.LimitBytes)
	}
	if account.IsPaid || account.PlanExpireAt != nil {
		t.Fatalf("expected unpaid account without expiry, got paid=%v expire=%v",
			account.IsPaid, account.PlanExpireAt)
	}
}

func TestCheckLimit_Boundary(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)
	setAccountLimit(t, user.ID, 1000)

	if err := AddUsage(user.ID, 400); err != nil {
		t.Fatalf("add usage: %v", err)
	}

	// 剩余 600, 刚好够
	ok, err := CheckLimit(user.ID, 600)
	if err != nil || !ok {
		t.Fatalf("expected exact fit to pass, got ok=%v err=%v", ok, err)
	}
	// 超一个字节就不够
	ok, err = CheckLimit(user.ID, 601)
	if err != nil || ok {
		t.Fatalf("expected one byte over to fail, got ok=%v err=%v", ok, err)
	}
	// 零字节总是够
	ok, err = CheckLimit(user.ID, 0)
	if err != nil || !ok {
		t.Fatalf("expected zero bytes to pass, got ok=%v err=%v", ok, err)
	}
}

func TestReserveStorage_Boundary(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)
	setAccountLimit(t, user.ID, 1000)

	// 刚好占满
	if err := ReserveStorage(user.ID, 1000); err != nil {
		t.Fatalf("expected exact fill to succeed, got %v", err)
	}
	// 满了之后一个字节也放不进
	if err := ReserveStorage(user.ID, 1); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	// 失败的预留不应改变用量
	account := mustGetAccount(t, user.ID)
	if account.UsedBytes != 1000 {
		t.Fatalf("expected used 1000 after failed reserve, got %d", account.UsedBytes)
	}
}

func TestReserveStorage_AccountNotFound(t *testing.T) {
	setupServiceTest(t)

	if err := ReserveStorage(9999, 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestReserveStorage_Concurrent(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)
	// 上限只容得下 5 个 100 字节的预留
	setAccountLimit(t, user.ID, 500)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ReserveStorage(user.ID, 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 reservations to succeed, got %d", succeeded)
	}
	account := mustGetAccount(t, user.ID)
	if account.UsedBytes != 500 {
		t.Fatalf("expected used 500, got %d", account.UsedBytes)
	}
	if account.UsedBytes > account.LimitBytes {
		t.Fatalf("used %d exceeded limit %d", account.UsedBytes, account.LimitBytes)
	}
}

func TestAddRemoveUsage_RoundTrip(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)

	if err := AddUsage(user.ID, 12345); err != nil {
		t.Fatalf("add usage: %v", err)
	}
	if err := AddUsage(user.ID, 55); err != nil {
		t.Fatalf("add usage: %v", err)
	}
	if err := RemoveUsage(user.ID, 55); err != nil {
		t.Fatalf("remove usage: %v", err)
	}
	if err := RemoveUsage(user.ID, 12345); err != nil {
		t.Fatalf("remove usage: %v", err)
	}

	account := mustGetAccount(t, user.ID)
	if account.UsedBytes != 0 {
		t.Fatalf("expected used 0 after round trip, got %d", account.UsedBytes)
	}
}

func TestRemoveUsage_NoZeroClamp(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t)

	// 与上游行为一致: 多退不钳制到零, 留给对账发现
	if err := RemoveUsage(user.ID, 100); err != nil {
		t.Fatalf("remove usage: %v", err)
	}
	account := mustGetAccount(t, user.ID)
	if account.UsedBytes != -100 {
		t.Fatalf("expected used -100, got %d", account.UsedBytes)
	}
}

func TestBytesToGB(t *testing.T) {
	cases := []struct {
		bytes int64
		want  float64
	}{
		{0, 0},
		{GiB, 1},
		{50 * GiB, 50},
		{GiB / 2, 0.5},
		{GiB + GiB/4, 1.25},
	}
	for _, tc := range cases {
		if got := BytesToGB(tc.bytes); got != tc.want {
			t.Fatalf("BytesToGB(%d) = %v, want %v", tc.bytes, got, tc.want)
		}
	}
}
