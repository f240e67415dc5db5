package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/dvtrade/cardmarket/internal/services/market/domain"
)

func TestAggregatorFoldsKinds(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator()
	now := time.Now().UTC()

	aggregator.OnTransaction(domain.DirectPurchase{ID: "t1", Price: 1000, CreatedAt: now})
	aggregator.OnTransaction(domain.DirectPurchase{ID: "t2", Price: 500, CreatedAt: now})
	aggregator.OnTransaction(domain.CoinTransfer{ID: "t3", Amount: 250, CreatedAt: now})
	aggregator.OnTransaction(domain.Gift{ID: "t4", Amount: 3, CreatedAt: now})

	snapshot := aggregator.Snapshot()

	direct := snapshot[domain.KindDirect]
	if direct.Count != 2 {
		t.Errorf("direct count = %d, want 2", direct.Count)
	}
	if direct.Volume != 1500 {
		t.Errorf("direct volume = %d, want 1500", direct.Volume)
	}

	transfer := snapshot[domain.KindTransfer]
	if transfer.Count != 1 {
		t.Errorf("transfer count = %d, want 1", transfer.Count)
	}
	if transfer.Volume != 250 {
		t.Errorf("transfer volume = %d, want 250", transfer.Volume)
	}

	gift := snapshot[domain.KindGift]
	if gift.Count != 1 {
		t.Errorf("gift count = %d, want 1", gift.Count)
	}
	if gift.Volume != 0 {
		t.Errorf("gift volume = %d, want 0", gift.Volume)
	}
}

func TestAggregatorConcurrentUse(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator()
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				aggregator.OnTransaction(domain.DirectPurchase{ID: "t", Price: 1, CreatedAt: now})
			}
		}()
	}
	wg.Wait()

	direct := aggregator.Snapshot()[domain.KindDirect]
	if direct.Count != 1000 {
		t.Errorf("direct count = %d, want 1000", direct.Count)
	}
	if direct.Volume != 1000 {
		t.Errorf("direct volume = %d, want 1000", direct.Volume)
	}
}

func TestAggregatorSnapshotIsCopy(t *testing.T) {
	t.Parallel()

	aggregator := NewAggregator()
	aggregator.OnTransaction(domain.DirectPurchase{ID: "t1", Price: 100})

	snapshot := aggregator.Snapshot()
	snapshot[domain.KindDirect] = KindStats{Count: 99, Volume: 99}

	direct := aggregator.Snapshot()[domain.KindDirect]
	if direct.Count != 1 {
		t.Errorf("direct count = %d, want 1", direct.Count)
	}
}
