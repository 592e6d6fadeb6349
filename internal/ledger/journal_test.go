package ledger

import (
	"errors"
	"testing"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

func TestNewJournal(t *testing.T) {
	stock := model.Asset{ID: "stock-1", Symbol: "AAPL", Type: model.AssetTypeStock}
	cash := model.Asset{ID: "cash-1", Symbol: "USD", Type: model.AssetTypeCash}

	t.Run("buy is funded by a cash withdrawal", func(t *testing.T) {
		j, err := NewJournal(stock, &cash, Trade{Kind: model.KindBuy, Date: day(5), Quantity: dec(10), Price: dec(150), Note: "first"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if j.Counter == nil {
			t.Fatal("Expected a cash counter posting")
		}
		if j.Counter.Kind != model.KindWithdrawal {
			t.Errorf("Expected withdrawal, got %s", j.Counter.Kind)
		}
		if j.Counter.Amount != 1500 {
			t.Errorf("Expected amount 1500, got %v", j.Counter.Amount)
		}
		if j.Counter.AssetID != cash.ID || j.Primary.AssetID != stock.ID {
			t.Error("Expected postings on the stock and cash assets")
		}
		if j.Primary.LinkedID == nil || *j.Primary.LinkedID != j.Counter.ID {
			t.Error("Expected primary to link to the counter posting")
		}
		if j.Counter.LinkedID == nil || *j.Counter.LinkedID != j.Primary.ID {
			t.Error("Expected counter to link to the primary posting")
		}
		if j.Primary.EntryID != j.ID || j.Counter.EntryID != j.ID {
			t.Error("Expected both postings to carry the journal id")
		}
		if j.Counter.Note != "first" || !j.Counter.Date.Equal(day(5)) {
			t.Error("Expected counter to share date and note")
		}
		if !j.Balanced() {
			t.Error("Expected journal to be balanced")
		}
	})

	t.Run("sell and income are paid out as deposits", func(t *testing.T) {
		for _, kind := range []model.TransactionKind{model.KindSell, model.KindDividend, model.KindInterest} {
			j, err := NewJournal(stock, &cash, Trade{Kind: kind, Date: day(1), Quantity: dec(2), Price: dec(3)})
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", kind, err)
			}
			if j.Counter == nil || j.Counter.Kind != model.KindDeposit {
				t.Errorf("%s: expected deposit counter posting", kind)
			}
		}
	})

	t.Run("without a cash asset only the primary posting exists", func(t *testing.T) {
		j, err := NewJournal(stock, nil, Trade{Kind: model.KindBuy, Date: day(1), Quantity: dec(1), Price: dec(1)})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if j.Counter != nil {
			t.Error("Expected no counter posting")
		}
		if len(j.Postings()) != 1 {
			t.Errorf("Expected 1 posting, got %d", len(j.Postings()))
		}
	})

	t.Run("deposit on cash produces a single cash posting", func(t *testing.T) {
		j, err := NewJournal(cash, &cash, Trade{Kind: model.KindDeposit, Date: day(1), Amount: dec(5000)})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if j.Counter != nil {
			t.Error("Expected no counter posting on a cash deposit")
		}
		if j.Primary.Amount != 5000 || j.Primary.Quantity != 0 {
			t.Errorf("Expected amount-only posting, got %+v", j.Primary)
		}
	})

	t.Run("rejects kinds that do not fit the asset", func(t *testing.T) {
		_, err := NewJournal(cash, nil, Trade{Kind: model.KindBuy, Date: day(1), Quantity: dec(1), Price: dec(1)})
		if !errors.Is(err, apperrors.ErrKindNotAllowed) {
			t.Errorf("Expected ErrKindNotAllowed, got %v", err)
		}
		_, err = NewJournal(stock, nil, Trade{Kind: model.KindDeposit, Date: day(1), Amount: dec(1)})
		if !errors.Is(err, apperrors.ErrKindNotAllowed) {
			t.Errorf("Expected ErrKindNotAllowed, got %v", err)
		}
	})

	t.Run("rejects a non-cash counter asset", func(t *testing.T) {
		other := model.Asset{ID: "etf-1", Type: model.AssetTypeETF}
		_, err := NewJournal(stock, &other, Trade{Kind: model.KindBuy, Date: day(1), Quantity: dec(1), Price: dec(1)})
		if !errors.Is(err, apperrors.ErrCashAssetNotCash) {
			t.Errorf("Expected ErrCashAssetNotCash, got %v", err)
		}
	})
}

func TestJournalRepost(t *testing.T) {
	stock := model.Asset{ID: "stock-1", Type: model.AssetTypeStock}
	cash := model.Asset{ID: "cash-1", Type: model.AssetTypeCash}

	j, err := NewJournal(stock, &cash, Trade{Kind: model.KindBuy, Date: day(1), Quantity: dec(10), Price: dec(10), Note: "a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trade := j.TradeOf()
	trade.Date = day(9)
	trade.Price = dec(12)
	trade.Note = "b"

	edited, err := j.Repost(stock.Type, trade)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if edited.ID != j.ID || edited.Primary.ID != j.Primary.ID || edited.Counter.ID != j.Counter.ID {
		t.Error("Expected ids to survive an edit")
	}
	if edited.Counter.Amount != 120 {
		t.Errorf("Expected counter amount 120, got %v", edited.Counter.Amount)
	}
	if !edited.Counter.Date.Equal(day(9)) || edited.Counter.Note != "b" {
		t.Error("Expected counter date and note to follow the edit")
	}
	if !edited.Balanced() {
		t.Error("Expected edited journal to stay balanced")
	}

	// the original value must not be mutated through shared pointers
	if j.Counter.Amount != 100 {
		t.Errorf("Expected original counter amount 100, got %v", j.Counter.Amount)
	}
}

func TestJournalBalanced(t *testing.T) {
	j := Journal{
		Primary: model.Transaction{Kind: model.KindBuy, Quantity: 2, PricePerUnit: 5},
		Counter: &model.Transaction{Kind: model.KindWithdrawal, Amount: 9},
	}
	if j.Balanced() {
		t.Error("Expected mismatched amounts to be unbalanced")
	}

	j.Counter = &model.Transaction{Kind: model.KindDeposit, Amount: 10}
	if j.Balanced() {
		t.Error("Expected wrong counter kind to be unbalanced")
	}
}
