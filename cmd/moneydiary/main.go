package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"moneydiary/internal/aggregate"
	"moneydiary/internal/balance"
	"moneydiary/internal/cache"
	"moneydiary/internal/config"
	"moneydiary/internal/core"
	"moneydiary/internal/log"
	"moneydiary/internal/recurring"
	"moneydiary/internal/remote"
	"moneydiary/internal/remote/memory"
	"moneydiary/internal/remote/rpc"
	"moneydiary/internal/session"
)

func main() {
	var (
		monthFlag = flag.String("month", "", "month to show (YYYY-MM, default current)")
		payerFlag = flag.String("payer", "", "restrict summaries to one payer")
		viewFlag  = flag.String("view", "summary", "view to render: summary|calendar|places|balance|recurring")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})

	month := core.MonthOf(time.Now())
	if *monthFlag != "" {
		m, err := core.ParseMonth(*monthFlag)
		if err != nil {
			logger.Error("invalid month", log.FieldMonth, *monthFlag, log.FieldError, err)
			os.Exit(1)
		}
		month = m
	}

	var svc remote.DataService
	switch cfg.DataBackend {
	case "rpc":
		client := rpc.New(cfg.APIBaseURL,
			rpc.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			rpc.WithLogger(logger.Logger),
		)
		client.SetToken(cfg.AuthToken)
		svc = client
		logger.Info("using rpc backend", "url", cfg.APIBaseURL)
	default:
		store := memory.New(cfg.Viewer)
		seedDemo(store)
		svc = store
		logger.Info("using memory backend", "viewer", cfg.Viewer)
	}

	metrics := session.NewMetrics(prometheus.NewRegistry())
	sess := session.New(svc, cache.NewMemory(),
		session.WithLogger(logger),
		session.WithMetrics(metrics),
		session.WithOnAuthError(func(err error) {
			logger.Error("authentication failed, sign in again", log.FieldError, err)
		}),
	)
	defer sess.Close()

	ctx := context.Background()
	var err error
	switch *viewFlag {
	case "summary":
		err = renderSummary(ctx, sess, month, *payerFlag)
	case "calendar":
		err = renderCalendar(ctx, sess, month, *payerFlag)
	case "places":
		err = renderPlaces(ctx, sess, month)
	case "balance":
		err = renderBalances(ctx, sess, month)
	case "recurring":
		err = renderRecurring(ctx, sess)
	default:
		err = fmt.Errorf("unknown view %q", *viewFlag)
	}
	if err != nil {
		logger.Error("render failed", "view", *viewFlag, log.FieldError, err)
		os.Exit(1)
	}
}

func renderSummary(ctx context.Context, sess *session.Session, month core.Month, payer string) error {
	view, err := sess.MonthView(ctx, month, payer)
	if err != nil {
		return err
	}

	b := aggregate.CategoryBreakdown(view.Expenses, view.Registry)
	fmt.Printf("%s の収支\n\n", month)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "支出\t金額\t割合")
	for _, item := range b.Expense {
		fmt.Fprintf(w, "%s\t¥%d\t%.1f%%\n", item.Label, item.Amount, item.Percent)
	}
	fmt.Fprintf(w, "合計\t¥%d\t\n", b.ExpenseTotal)
	if len(b.Income) > 0 {
		fmt.Fprintln(w, "\n収入\t金額\t割合")
		for _, item := range b.Income {
			fmt.Fprintf(w, "%s\t¥%d\t%.1f%%\n", item.Label, item.Amount, item.Percent)
		}
		fmt.Fprintf(w, "合計\t¥%d\t\n", b.IncomeTotal)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if cmp := view.Summary.PreviousMonth; cmp != nil {
		fmt.Printf("\n前月比: %+d (%.2f%%)\n", cmp.Diff, cmp.DiffPercent)
	}
	if cmp := view.Summary.PreviousYearMonth; cmp != nil {
		fmt.Printf("前年同月比: %+d (%.2f%%)\n", cmp.Diff, cmp.DiffPercent)
	}
	return nil
}

func renderCalendar(ctx context.Context, sess *session.Session, month core.Month, payer string) error {
	view, err := sess.MonthView(ctx, month, payer)
	if err != nil {
		return err
	}

	totals := aggregate.DailyTotals(view.Expenses, view.Registry)
	max := aggregate.MaxDaily(totals)
	fmt.Printf("%s のカレンダー\n\n", month)
	for day := 1; day <= month.Days(); day++ {
		total := totals[day]
		if total == 0 {
			continue
		}
		bars := int(aggregate.Intensity(total, max) * 20)
		fmt.Printf("%2d日  ¥%-8d %s\n", day, total, strings.Repeat("█", bars))
	}
	return nil
}

func renderPlaces(ctx context.Context, sess *session.Session, month core.Month) error {
	view, err := sess.MonthView(ctx, month, "")
	if err != nil {
		return err
	}

	fmt.Printf("%s の店舗別支出\n\n", month)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, item := range aggregate.PlaceRanking(view.Expenses) {
		fmt.Fprintf(w, "%d.\t%s\t¥%d\t%.1f%%\n", i+1, item.Label, item.Amount, item.Percent)
	}
	return w.Flush()
}

func renderBalances(ctx context.Context, sess *session.Session, month core.Month) error {
	reg, err := sess.Registry(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s の残高\n\n", month)
	for _, p := range reg.ActivePayers() {
		if !balance.ShouldFetch(p) {
			continue
		}
		b, err := sess.PayerBalance(ctx, p.Name, month)
		if err != nil {
			return err
		}
		if !balance.Displayable(b) {
			continue
		}
		fmt.Printf("%s\n", p.Name)
		fmt.Printf("  繰越 ¥%d + チャージ ¥%d - 利用 ¥%d = 残高 ¥%d\n",
			b.Carryover, b.MonthCharge, b.MonthSpent, balance.Combine(b))
	}
	return nil
}

func renderRecurring(ctx context.Context, sess *session.Session) error {
	templates, err := sess.RecurringExpenses(ctx)
	if err != nil {
		return err
	}

	fmt.Println("定期支出テンプレート")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range templates {
		state := "有効"
		if !r.IsActive {
			state = "停止中"
		}
		fmt.Fprintf(w, "%s\t¥%d\t%s\t%s\n", r.Category, r.Amount, recurring.FrequencyLabel(r), state)
	}
	return w.Flush()
}

// seedDemo fills the memory backend with a browsable dataset.
func seedDemo(store *memory.Store) {
	now := time.Now()
	month := core.MonthOf(now)
	prev := month.Previous()

	store.Seed(
		[]core.Category{
			{ID: "cat-food", Name: "食費", SortOrder: 1, Color: "#E74C3C", IsActive: true, IsExpense: true},
			{ID: "cat-daily", Name: "日用品", SortOrder: 2, Color: "#3498DB", IsActive: true, IsExpense: true},
			{ID: "cat-transport", Name: "交通費", SortOrder: 3, Color: "#F39C12", IsActive: true, IsExpense: true},
			{ID: "cat-charge", Name: "チャージ", SortOrder: 4, Color: "#95A5A6", IsActive: true, IsExpense: false},
			{ID: "cat-income", Name: "収入", SortOrder: 5, Color: "#2ECC71", IsActive: true, IsExpense: false},
		},
		[]core.Place{
			{ID: "place-1", Name: "スーパー", SortOrder: 1, IsActive: true},
			{ID: "place-2", Name: "ドラッグストア", SortOrder: 2, IsActive: true},
		},
		[]core.Payer{
			{ID: "payer-1", Name: "現金", SortOrder: 1, IsActive: true},
			{ID: "payer-2", Name: "交通系IC", SortOrder: 2, IsActive: true, TrackBalance: true},
		},
		[]core.Expense{
			{ID: "d1", Date: month.Date(3), Payer: "現金", Category: "cat-food", Amount: 3200, Place: "スーパー", CreatedBy: "demo"},
			{ID: "d2", Date: month.Date(5), Payer: "現金", Category: "cat-daily", Amount: 1100, Place: "ドラッグストア", CreatedBy: "demo"},
			{ID: "d3", Date: month.Date(5), Payer: "交通系IC", Category: "cat-transport", Amount: 440, CreatedBy: "demo"},
			{ID: "d4", Date: month.Date(10), Payer: "交通系IC", Category: "cat-charge", Amount: 3000, CreatedBy: "demo"},
			{ID: "d5", Date: month.Date(25), Payer: "現金", Category: "cat-income", Amount: 250000, CreatedBy: "demo"},
			{ID: "p1", Date: prev.Date(8), Payer: "現金", Category: "cat-food", Amount: 2800, Place: "スーパー", CreatedBy: "demo"},
			{ID: "p2", Date: prev.Date(12), Payer: "交通系IC", Category: "cat-charge", Amount: 2000, CreatedBy: "demo"},
			{ID: "p3", Date: prev.Date(14), Payer: "交通系IC", Category: "cat-transport", Amount: 880, CreatedBy: "demo"},
		},
	)
	store.SeedRecurring([]core.RecurringExpense{
		{ID: "r1", Category: "家賃", Amount: 80000, Payer: "現金", Frequency: core.Monthly, DayOfMonth: 27, IsActive: true},
		{ID: "r2", Category: "保険", Amount: 12000, Payer: "現金", Frequency: core.Yearly, DayOfMonth: 1, RepeatMonth: 4, IsActive: true},
	})
}
