package recurring

import (
	"testing"
	"time"

	"moneydiary/internal/core"
)

func TestFrequencyLabel(t *testing.T) {
	tests := []struct {
		name string
		r    core.RecurringExpense
		want string
	}{
		{"monthly", core.RecurringExpense{Frequency: core.Monthly, DayOfMonth: 27}, "毎月27日"},
		{"bimonthly", core.RecurringExpense{Frequency: core.Bimonthly, DayOfMonth: 1}, "隔月1日"},
		{"yearly", core.RecurringExpense{Frequency: core.Yearly, DayOfMonth: 15, RepeatMonth: 4}, "毎年4月15日"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrequencyLabel(tt.r); got != tt.want {
				t.Errorf("FrequencyLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaterialize(t *testing.T) {
	r := core.RecurringExpense{
		Category:   "家賃",
		Amount:     80000,
		Payer:      "太郎",
		Place:      "不動産屋",
		Memo:       "5月分",
		Frequency:  core.Yearly,
		DayOfMonth: 27,
		StartMonth: "2030-01", // cadence fields must not affect a manual register
	}
	today := time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)

	got := Materialize(r, today)
	want := core.ExpenseInput{
		Date: "2024-05-03", Payer: "太郎", Category: "家賃", Amount: 80000, Memo: "5月分", Place: "不動産屋",
	}
	if got != want {
		t.Errorf("Materialize = %+v, want %+v", got, want)
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		month      string
		want       bool
	}{
		{"unbounded", "", "", "2024-05", true},
		{"inside", "2024-01", "2024-12", "2024-05", true},
		{"at start", "2024-05", "", "2024-05", true},
		{"at end", "", "2024-05", "2024-05", true},
		{"before start", "2024-06", "", "2024-05", false},
		{"after end", "", "2024-04", "2024-05", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := core.ParseMonth(tt.month)
			if err != nil {
				t.Fatal(err)
			}
			r := core.RecurringExpense{StartMonth: tt.start, EndMonth: tt.end}
			if got := InWindow(r, m); got != tt.want {
				t.Errorf("InWindow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDue(t *testing.T) {
	may := core.NewMonth(2024, 5)
	tests := []struct {
		name string
		r    core.RecurringExpense
		want bool
	}{
		{"monthly active", core.RecurringExpense{IsActive: true, Frequency: core.Monthly}, true},
		{"inactive", core.RecurringExpense{Frequency: core.Monthly}, false},
		{"already created", core.RecurringExpense{IsActive: true, Frequency: core.Monthly, LastCreatedMonth: "2024-05"}, false},
		{"created earlier", core.RecurringExpense{IsActive: true, Frequency: core.Monthly, LastCreatedMonth: "2024-04"}, true},
		{"yearly on month", core.RecurringExpense{IsActive: true, Frequency: core.Yearly, RepeatMonth: 5}, true},
		{"yearly off month", core.RecurringExpense{IsActive: true, Frequency: core.Yearly, RepeatMonth: 4}, false},
		{"bimonthly even offset", core.RecurringExpense{IsActive: true, Frequency: core.Bimonthly, StartMonth: "2024-01"}, true},
		{"bimonthly odd offset", core.RecurringExpense{IsActive: true, Frequency: core.Bimonthly, StartMonth: "2024-02"}, false},
		{"outside window", core.RecurringExpense{IsActive: true, Frequency: core.Monthly, EndMonth: "2024-04"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Due(tt.r, may); got != tt.want {
				t.Errorf("Due = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaterializeForClampsDay(t *testing.T) {
	r := core.RecurringExpense{Category: "サブスク", Amount: 500, DayOfMonth: 31, IsActive: true, Frequency: core.Monthly}

	got := MaterializeFor(r, core.NewMonth(2024, 2))
	if got.Date != "2024-02-29" {
		t.Errorf("Date = %q, want clamped leap-February end", got.Date)
	}
	got = MaterializeFor(r, core.NewMonth(2024, 4))
	if got.Date != "2024-04-30" {
		t.Errorf("Date = %q, want 2024-04-30", got.Date)
	}
}

func TestBulkInputs(t *testing.T) {
	proto := core.ExpenseInput{Payer: "太郎", Category: "cat-rent", Amount: 80000}

	got := BulkInputs(proto, 31, core.NewMonth(2024, 1), core.NewMonth(2024, 3))
	if len(got) != 3 {
		t.Fatalf("got %d inputs, want 3", len(got))
	}
	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	for i, in := range got {
		if in.Date != wantDates[i] {
			t.Errorf("input %d date = %q, want %q", i, in.Date, wantDates[i])
		}
		if in.Amount != 80000 || in.Category != "cat-rent" {
			t.Errorf("input %d lost proto fields: %+v", i, in)
		}
	}

	if got := BulkInputs(proto, 1, core.NewMonth(2024, 3), core.NewMonth(2024, 1)); got != nil {
		t.Errorf("inverted range must yield nil, got %d inputs", len(got))
	}
}
