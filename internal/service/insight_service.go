package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/insight"
	"github.com/ndewijer/folio/internal/model"
)

// maxPromptHeadlines caps how many headlines are sent with an insight prompt.
const maxPromptHeadlines = 15

// InsightService produces an AI commentary on the portfolio and its news.
type InsightService struct {
	portfolioService *PortfolioService
	newsService      *NewsService
	settingsService  *SettingsService
	generator        insight.Generator
}

// NewInsightService creates a new InsightService.
func NewInsightService(
	portfolioService *PortfolioService,
	newsService *NewsService,
	settingsService *SettingsService,
	generator insight.Generator,
) *InsightService {
	return &InsightService{
		portfolioService: portfolioService,
		newsService:      newsService,
		settingsService:  settingsService,
		generator:        generator,
	}
}

// Generate builds a prompt from the current summary and headlines and returns the
// model's reply as Markdown and HTML. News failures only shrink the prompt.
func (s *InsightService) Generate(ctx context.Context) (model.Insight, error) {
	apiKey, err := s.settingsService.AIKey(ctx)
	if err != nil {
		return model.Insight{}, err
	}
	modelName := s.settingsService.AIModel(ctx)

	summary, err := s.portfolioService.GetSummary(ctx)
	if err != nil {
		return model.Insight{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolioSummary, err)
	}

	feed, err := s.newsService.GetNews(ctx, "", 3)
	if err != nil {
		feed = model.NewsFeed{}
	}

	markdown, err := s.generator.Generate(ctx, apiKey, modelName, BuildInsightPrompt(summary, feed.Items))
	if err != nil {
		if errors.Is(err, apperrors.ErrAIKeyMissing) {
			return model.Insight{}, err
		}
		return model.Insight{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGenerateInsight, err)
	}

	html, err := insight.RenderHTML(markdown)
	if err != nil {
		return model.Insight{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGenerateInsight, err)
	}

	return model.Insight{
		Markdown:    markdown,
		HTML:        html,
		Model:       modelName,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// BuildInsightPrompt renders the portfolio and headlines as a plain-text prompt.
func BuildInsightPrompt(summary model.PortfolioSummary, headlines []model.NewsItem) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Portfolio total value: %.2f (day change %.2f, %.2f%%)\n",
		summary.TotalValue, summary.DayChange, summary.DayChangePct)
	fmt.Fprintf(&b, "Cash balance: %.2f\n", summary.CashBalance)
	fmt.Fprintf(&b, "Unrealized gain: %.2f (%.2f%%), realized gain: %.2f, income: %.2f\n\n",
		summary.UnrealizedGain, summary.UnrealizedGainPct, summary.RealizedGain, summary.TotalIncome)

	b.WriteString("Holdings:\n")
	for _, h := range summary.Holdings {
		if h.Type.IsCash() || h.TotalShares == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %.4g units, avg cost %.2f, price %.2f, value %.2f, allocation %.1f%%, day change %.2f\n",
			h.Symbol, h.Name, h.Type, h.TotalShares, h.AverageCost, h.CurrentPrice, h.CurrentValue, h.Allocation, h.DayChange)
	}

	if len(headlines) > 0 {
		b.WriteString("\nRecent headlines:\n")
		for i, n := range headlines {
			if i == maxPromptHeadlines {
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", n.Symbol, n.Title)
		}
	}

	return b.String()
}
