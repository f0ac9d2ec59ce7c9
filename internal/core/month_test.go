package core

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "valid", in: "2024-05", want: "2024-05"},
		{name: "single digit month rejected", in: "2024-5", wantErr: true},
		{name: "full date rejected", in: "2024-05-01", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "may 2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMonth(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonth(%q) expected error, got %v", tt.in, m)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonth(%q) unexpected error: %v", tt.in, err)
			}
			if got := m.String(); got != tt.want {
				t.Errorf("ParseMonth(%q).String() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMonthArithmetic(t *testing.T) {
	m := NewMonth(2024, 1)

	if got := m.Previous().String(); got != "2023-12" {
		t.Errorf("Previous() = %q, want 2023-12", got)
	}
	if got := m.PreviousYear().String(); got != "2023-01" {
		t.Errorf("PreviousYear() = %q, want 2023-01", got)
	}
	if got := m.AddMonths(13).String(); got != "2025-02" {
		t.Errorf("AddMonths(13) = %q, want 2025-02", got)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{name: "single month", start: "2024-01", end: "2024-01", want: []string{"2024-01"}},
		{
			name:  "across year boundary",
			start: "2024-11",
			end:   "2025-02",
			want:  []string{"2024-11", "2024-12", "2025-01", "2025-02"},
		},
		{name: "end before start", start: "2024-05", end: "2024-04", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := ParseMonth(tt.start)
			if err != nil {
				t.Fatal(err)
			}
			end, err := ParseMonth(tt.end)
			if err != nil {
				t.Fatal(err)
			}

			got := MonthRange(start, end)
			if len(got) != len(tt.want) {
				t.Fatalf("MonthRange(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
			for i, m := range got {
				if m.String() != tt.want[i] {
					t.Errorf("MonthRange[%d] = %q, want %q", i, m.String(), tt.want[i])
				}
			}
		})
	}
}

func TestTrailingMonths(t *testing.T) {
	months := TrailingMonths(NewMonth(2024, 5), 13)
	if len(months) != 13 {
		t.Fatalf("len = %d, want 13", len(months))
	}
	if got := months[0].String(); got != "2023-05" {
		t.Errorf("first = %q, want 2023-05", got)
	}
	if got := months[12].String(); got != "2024-05" {
		t.Errorf("last = %q, want 2024-05", got)
	}

	if got := TrailingMonths(NewMonth(2024, 5), 0); got != nil {
		t.Errorf("TrailingMonths(_, 0) = %v, want nil", got)
	}
}

func TestMonthDateClampsDay(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		day   int
		want  string
	}{
		{name: "normal day", month: NewMonth(2024, 5), day: 7, want: "2024-05-07"},
		{name: "february clamp", month: NewMonth(2023, 2), day: 31, want: "2023-02-28"},
		{name: "leap february", month: NewMonth(2024, 2), day: 30, want: "2024-02-29"},
		{name: "thirty day month", month: NewMonth(2024, 4), day: 31, want: "2024-04-30"},
		{name: "day floor", month: NewMonth(2024, 4), day: 0, want: "2024-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.month.Date(tt.day); got != tt.want {
				t.Errorf("Date(%d) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestMonthContains(t *testing.T) {
	m := NewMonth(2024, 5)

	if !m.Contains("2024-05-31") {
		t.Error("Contains(2024-05-31) = false, want true")
	}
	if m.Contains("2024-06-01") {
		t.Error("Contains(2024-06-01) = true, want false")
	}
	if m.Contains("not a date") {
		t.Error("Contains(malformed) = true, want false")
	}
}

func TestMonthOf(t *testing.T) {
	m := MonthOf(time.Date(2024, 5, 17, 23, 59, 0, 0, time.UTC))
	if got := m.String(); got != "2024-05" {
		t.Errorf("MonthOf = %q, want 2024-05", got)
	}
}
