package scheduler

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	from := time.Date(2026, 8, 25, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "daily at 03:00",
			expr: "0 3 * * *",
			want: time.Date(2026, 8, 26, 3, 0, 0, 0, time.UTC),
		},
		{
			name: "every hour",
			expr: "0 * * * *",
			want: time.Date(2026, 8, 25, 13, 0, 0, 0, time.UTC),
		},
		{
			name: "every 15 minutes",
			expr: "*/15 * * * *",
			want: time.Date(2026, 8, 25, 12, 45, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.expr, from)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRun = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextRun_InvalidExpr(t *testing.T) {
	_, err := NextRun("not a cron", time.Now())
	if err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestValidateCronExpr(t *testing.T) {
	if err := ValidateCronExpr("0 3 * * *"); err != nil {
		t.Errorf("valid expression rejected: %v", err)
	}
	if err := ValidateCronExpr("61 * * * *"); err == nil {
		t.Error("invalid expression accepted")
	}
}

func TestSweepCronExpr_Default(t *testing.T) {
	t.Setenv("DECAY_CRON", "")
	if got := SweepCronExpr(); got != DefaultSweepCron {
		t.Errorf("SweepCronExpr = %q, want default %q", got, DefaultSweepCron)
	}

	t.Setenv("DECAY_CRON", "*/5 * * * *")
	if got := SweepCronExpr(); got != "*/5 * * * *" {
		t.Errorf("SweepCronExpr = %q, want override", got)
	}
}
