package cycle

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDate_TableTests(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		cycle string
		want  time.Time
	}{
		{
			name:  "monthly mid-month",
			date:  date(2024, time.March, 15),
			cycle: Monthly,
			want:  date(2024, time.April, 15),
		},
		{
			name:  "monthly jan 31 clamps to feb 29 in leap year",
			date:  date(2024, time.January, 31),
			cycle: Monthly,
			want:  date(2024, time.February, 29),
		},
		{
			name:  "monthly jan 31 clamps to feb 28 in common year",
			date:  date(2025, time.January, 31),
			cycle: Monthly,
			want:  date(2025, time.February, 28),
		},
		{
			name:  "monthly feb 29 keeps day 29",
			date:  date(2024, time.February, 29),
			cycle: Monthly,
			want:  date(2024, time.March, 29),
		},
		{
			name:  "monthly aug 31 clamps to sep 30",
			date:  date(2024, time.August, 31),
			cycle: Monthly,
			want:  date(2024, time.September, 30),
		},
		{
			name:  "monthly december rolls into next year",
			date:  date(2024, time.December, 10),
			cycle: Monthly,
			want:  date(2025, time.January, 10),
		},
		{
			name:  "yearly plain",
			date:  date(2024, time.June, 1),
			cycle: Yearly,
			want:  date(2025, time.June, 1),
		},
		{
			name:  "yearly feb 29 clamps to feb 28",
			date:  date(2024, time.February, 29),
			cycle: Yearly,
			want:  date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDate(tt.date, tt.cycle)
			if err != nil {
				t.Fatalf("NextDate(%v, %s) returned error: %v", tt.date, tt.cycle, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextDate(%v, %s) = %v, want %v", tt.date, tt.cycle, got, tt.want)
			}
		})
	}
}

func TestNextDate_UnsupportedCycle(t *testing.T) {
	_, err := NextDate(date(2024, time.January, 1), "WEEKLY")
	if !errors.Is(err, ErrUnsupportedCycle) {
		t.Errorf("NextDate with WEEKLY = %v, want ErrUnsupportedCycle", err)
	}
}

func TestNextDate_ChainFromJanuary31(t *testing.T) {
	// 31.01.2024 -> 29.02.2024 -> 29.03.2024
	first, err := NextDate(date(2024, time.January, 31), Monthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Equal(date(2024, time.February, 29)) {
		t.Fatalf("first = %v, want 2024-02-29", first)
	}
	second, err := NextDate(first, Monthly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Equal(date(2024, time.March, 29)) {
		t.Errorf("second = %v, want 2024-03-29", second)
	}
}
