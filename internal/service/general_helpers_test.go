package service_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/service"
)

func TestBuildInsightPrompt(t *testing.T) {
	summary := service.Summarize([]model.Holding{
		{Asset: model.Asset{Symbol: "USD", Type: model.AssetTypeCash}, TotalShares: 500, CurrentValue: 500},
		{Asset: model.Asset{Symbol: "AAPL", Name: "Apple", Type: model.AssetTypeStock}, TotalShares: 2, CurrentValue: 400, TotalCost: 300},
		{Asset: model.Asset{Symbol: "GONE", Type: model.AssetTypeStock}},
	})

	var headlines []model.NewsItem
	now := time.Now()
	for i := range 20 {
		headlines = append(headlines, model.NewsItem{Symbol: "AAPL", Title: fmt.Sprintf("headline %02d", i), PublishedAt: &now})
	}

	prompt := service.BuildInsightPrompt(summary, headlines)

	if !strings.Contains(prompt, "Portfolio total value: 900.00") {
		t.Errorf("Expected total value line, got %q", prompt)
	}
	if !strings.Contains(prompt, "- AAPL (Apple, stock)") {
		t.Error("Expected AAPL holding line")
	}
	if strings.Contains(prompt, "- USD") || strings.Contains(prompt, "GONE") {
		t.Error("Expected cash and empty holdings to be left out")
	}
	if !strings.Contains(prompt, "headline 14") || strings.Contains(prompt, "headline 15") {
		t.Error("Expected headlines to be capped at 15")
	}
}
