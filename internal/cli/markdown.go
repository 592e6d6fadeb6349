package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/render"
)

// cell escapes s for a markdown table.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func qty(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func money(f float64) string {
	return render.Money(f, "")
}

func date(t time.Time) string {
	return t.Format(time.DateOnly)
}

func holdingsMarkdown(s model.PortfolioSummary) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	fmt.Fprintf(&b, "- **Total value:** %s\n", money(s.TotalValue))
	fmt.Fprintf(&b, "- **Cash:** %s\n", money(s.CashBalance))
	fmt.Fprintf(&b, "- **Day change:** %s (%s)\n", render.SignedMoney(s.DayChange, ""), render.Percent(s.DayChangePct))
	fmt.Fprintf(&b, "- **Unrealized gain:** %s (%s)\n", render.SignedMoney(s.UnrealizedGain, ""), render.Percent(s.UnrealizedGainPct))
	fmt.Fprintf(&b, "- **Realized gain:** %s\n", render.SignedMoney(s.RealizedGain, ""))
	fmt.Fprintf(&b, "- **Income:** %s\n", money(s.TotalIncome))
	if s.LastPriceUpdate != nil {
		fmt.Fprintf(&b, "- **Prices as of:** %s\n", s.LastPriceUpdate.Local().Format("2006-01-02 15:04"))
	}

	if len(s.Holdings) == 0 {
		b.WriteString("\nNo assets yet.\n")
		return b.String()
	}

	b.WriteString("\n| Symbol | Type | Units | Avg cost | Price | Value | Gain | Day | Alloc |\n")
	b.WriteString("|---|---|--:|--:|--:|--:|--:|--:|--:|\n")
	for _, h := range s.Holdings {
		symbol := h.Symbol
		if h.Matured {
			symbol += " (matured)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %.1f%% |\n",
			cell(symbol), h.Type, qty(h.TotalShares), money(h.AverageCost), money(h.CurrentPrice),
			money(h.CurrentValue), render.SignedMoney(h.UnrealizedGain, ""), render.SignedMoney(h.DayChange, ""), h.Allocation)
	}
	return b.String()
}

func assetsMarkdown(assets []model.Asset) string {
	if len(assets) == 0 {
		return "No assets yet.\n"
	}

	var b strings.Builder
	b.WriteString("| Symbol | Type | Name | Maturity | Rate | ID |\n")
	b.WriteString("|---|---|---|---|--:|---|\n")
	for _, a := range assets {
		maturity, rate := "", ""
		if a.MaturityDate != nil {
			maturity = date(*a.MaturityDate)
		}
		if a.InterestRate != nil {
			rate = fmt.Sprintf("%.2f%%", *a.InterestRate)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | `%s` |\n", cell(a.Symbol), a.Type, cell(a.Name), maturity, rate, a.ID)
	}
	return b.String()
}

func transactionsMarkdown(rows []model.TransactionResponse) string {
	if len(rows) == 0 {
		return "No transactions.\n"
	}

	var b strings.Builder
	b.WriteString("| Date | Symbol | Kind | Units | Price | Total | Note | ID |\n")
	b.WriteString("|---|---|---|--:|--:|--:|---|---|\n")
	for _, r := range rows {
		units, price := "", ""
		if !r.Kind.IsCashKind() {
			units, price = qty(r.Quantity), money(r.PricePerUnit)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | `%s` |\n",
			date(r.Date), cell(r.Symbol), r.Kind, units, price, money(r.TotalAmount), cell(r.Note), r.ID)
	}
	return b.String()
}

func journalMarkdown(j model.JournalResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recorded on %s", date(j.Date))
	if j.Note != "" {
		fmt.Fprintf(&b, ": %s", j.Note)
	}
	b.WriteString("\n\n")
	for _, p := range j.Postings {
		if p.Kind.IsCashKind() {
			fmt.Fprintf(&b, "- %s %s (`%s`)\n", p.Kind, money(p.Amount), p.ID)
			continue
		}
		fmt.Fprintf(&b, "- %s %s @ %s (`%s`)\n", p.Kind, qty(p.Quantity), money(p.PricePerUnit), p.ID)
	}
	return b.String()
}

func plansMarkdown(plans []model.PlanResponse) string {
	if len(plans) == 0 {
		return "No investment plans.\n"
	}

	var b strings.Builder
	b.WriteString("| Symbol | Status | Cadence | Per purchase | Progress | Next | ID |\n")
	b.WriteString("|---|---|---|--:|---|---|---|\n")
	for _, p := range plans {
		cadence := string(p.Cadence)
		if p.Cadence == model.CadenceCustom {
			cadence = fmt.Sprintf("every %d days", p.CustomDays)
		}
		next := ""
		if p.NextPurchaseDate != nil {
			next = date(*p.NextPurchaseDate)
			if p.Overdue {
				next += " **overdue**"
			}
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d/%d | %s | `%s` |\n",
			cell(p.Symbol), p.Status, cadence, money(p.AmountPerPurchase),
			p.CompletedPurchases, p.NumberOfPurchases, next, p.ID)
	}
	return b.String()
}

func refreshMarkdown(r model.RefreshResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Refreshed %d quote(s) in %s.\n\n", len(r.Updated), r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond))
	for _, q := range r.Updated {
		change := q.Price - q.PreviousClose
		fmt.Fprintf(&b, "- **%s** %s (%s)\n", q.Symbol, money(q.Price), render.SignedMoney(change, ""))
	}
	b.WriteString(errorsMarkdown(r.Errors))
	return b.String()
}

func newsMarkdown(feed model.NewsFeed) string {
	var b strings.Builder
	if len(feed.Items) == 0 {
		b.WriteString("No headlines.\n")
	}
	for _, n := range feed.Items {
		when := ""
		if n.PublishedAt != nil {
			when = " · " + n.PublishedAt.Local().Format("Jan 2 15:04")
		}
		fmt.Fprintf(&b, "- **%s** [%s](%s)%s\n", n.Symbol, n.Title, n.Link, when)
	}
	b.WriteString(errorsMarkdown(feed.Errors))
	return b.String()
}

func errorsMarkdown(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	symbols := make([]string, 0, len(errs))
	for s := range errs {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var b strings.Builder
	b.WriteString("\n**Failed:**\n\n")
	for _, s := range symbols {
		fmt.Fprintf(&b, "- %s\n", errs[s])
	}
	return b.String()
}
