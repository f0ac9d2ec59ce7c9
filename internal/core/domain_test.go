package core

import (
	"errors"
	"testing"
)

func TestVisibilityEffective(t *testing.T) {
	tests := []struct {
		in   Visibility
		want Visibility
	}{
		{in: "", want: VisibilityPublic},
		{in: VisibilityPublic, want: VisibilityPublic},
		{in: VisibilitySummary, want: VisibilitySummary},
		{in: VisibilityPrivate, want: VisibilityPrivate},
	}

	for _, tt := range tests {
		if got := tt.in.Effective(); got != tt.want {
			t.Errorf("Visibility(%q).Effective() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpenseInputValidate(t *testing.T) {
	valid := ExpenseInput{
		Date:     "2024-05-01",
		Payer:    "Alice",
		Category: "cat-food",
		Amount:   1200,
	}

	tests := []struct {
		name    string
		mutate  func(*ExpenseInput)
		wantErr error
	}{
		{name: "valid", mutate: func(*ExpenseInput) {}},
		{name: "missing date", mutate: func(in *ExpenseInput) { in.Date = "" }, wantErr: ErrInvalidDate},
		{name: "malformed date", mutate: func(in *ExpenseInput) { in.Date = "05/01/2024" }, wantErr: ErrInvalidDate},
		{name: "missing category", mutate: func(in *ExpenseInput) { in.Category = " " }, wantErr: ErrEmptyCategory},
		{name: "zero amount", mutate: func(in *ExpenseInput) { in.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(in *ExpenseInput) { in.Amount = -500 }, wantErr: ErrInvalidAmount},
		{name: "bad visibility", mutate: func(in *ExpenseInput) { in.Visibility = "hidden" }, wantErr: ErrInvalidVisibility},
		{name: "empty visibility ok", mutate: func(in *ExpenseInput) { in.Visibility = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringExpenseInputValidate(t *testing.T) {
	valid := RecurringExpenseInput{
		Category:   "Rent",
		Amount:     80000,
		Payer:      "Alice",
		Frequency:  Monthly,
		DayOfMonth: 27,
		IsActive:   true,
	}

	tests := []struct {
		name    string
		mutate  func(*RecurringExpenseInput)
		wantErr error
	}{
		{name: "valid monthly", mutate: func(*RecurringExpenseInput) {}},
		{
			name: "valid yearly",
			mutate: func(in *RecurringExpenseInput) {
				in.Frequency = Yearly
				in.RepeatMonth = 12
			},
		},
		{name: "missing category", mutate: func(in *RecurringExpenseInput) { in.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "zero amount", mutate: func(in *RecurringExpenseInput) { in.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "bad frequency", mutate: func(in *RecurringExpenseInput) { in.Frequency = "weekly" }, wantErr: ErrInvalidFrequency},
		{name: "day too small", mutate: func(in *RecurringExpenseInput) { in.DayOfMonth = 0 }, wantErr: ErrInvalidDayOfMonth},
		{name: "day too large", mutate: func(in *RecurringExpenseInput) { in.DayOfMonth = 32 }, wantErr: ErrInvalidDayOfMonth},
		{
			name: "yearly without repeat month",
			mutate: func(in *RecurringExpenseInput) {
				in.Frequency = Yearly
				in.RepeatMonth = 0
			},
			wantErr: ErrInvalidRepeatMonth,
		},
		{
			name:    "bad start month",
			mutate:  func(in *RecurringExpenseInput) { in.StartMonth = "2024/01" },
			wantErr: ErrInvalidDate,
		},
		{
			name:   "bounded window ok",
			mutate: func(in *RecurringExpenseInput) { in.StartMonth = "2024-01"; in.EndMonth = "2024-12" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
