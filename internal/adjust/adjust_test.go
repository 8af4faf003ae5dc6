package adjust

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dcunning11235/macromanage/internal/dietmode"
	"github.com/dcunning11235/macromanage/internal/plateau"
	"github.com/dcunning11235/macromanage/internal/trend"
)

func ptr[T any](v T) *T { return &v }

/* ─── AdjustmentSize ─────────────────────────────────────────────────── */

func TestAdjustmentSize(t *testing.T) {
	tests := []struct {
		name    string
		weekly  float64
		mode    dietmode.Mode
		bodyFat float64
		want    int
	}{
		{"base", -0.1, dietmode.StandardCut, 15, 200},
		{"close to target fine-tunes", -0.45, dietmode.StandardCut, 15, 140},
		{"far from target corrects harder", 0.2, dietmode.StandardCut, 15, 300},
		{"deviation of exactly 0.5 is unscaled", 0, dietmode.StandardCut, 15, 200},
		{"lean user", -0.1, dietmode.StandardCut, 10, 140},
		{"lean user near target", -0.5, dietmode.StandardCut, 10, 98},
		{"higher body fat far from target", 0.2, dietmode.StandardCut, 30, 390},
		{"body fat 12 is unscaled", -0.1, dietmode.StandardCut, 12, 200},
		{"body fat 25 is unscaled", -0.1, dietmode.StandardCut, 25, 200},
		{"bulk near target", 0.3, dietmode.LeanBulk, 15, 140},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AdjustmentSize(tc.weekly, tc.mode, tc.bodyFat); got != tc.want {
				t.Errorf("AdjustmentSize(%v, %s, %v) = %d, want %d", tc.weekly, tc.mode, tc.bodyFat, got, tc.want)
			}
		})
	}
}

/* ─── Calculate ──────────────────────────────────────────────────────── */

// Losing 0.1 kg/week on a 0.5 kg/week cut is too slow.
func TestCalculate_CutTooSlow(t *testing.T) {
	stats := Stats{WeightKg: 85, BodyFat: 15}
	adjs := Calculate(stats, dietmode.StandardCut, Progress{WeeklyChange: -0.1})
	if len(adjs) != 1 {
		t.Fatalf("expected exactly 1 adjustment, got %d: %+v", len(adjs), adjs)
	}
	a := adjs[0]
	want := AdjustmentSize(-0.1, dietmode.StandardCut, 15)
	if a.Severity != Medium || a.Calories != -want || a.Protein != 0 {
		t.Errorf("got %+v, want Medium %d kcal", a, -want)
	}
}

func TestCalculate_LeanMassLoss(t *testing.T) {
	stats := Stats{WeightKg: 85, BodyFat: 22}
	adjs := Calculate(stats, dietmode.StandardCut, Progress{WeeklyChange: -0.5, LeanChange: ptr(-0.3)})
	if len(adjs) != 1 {
		t.Fatalf("expected exactly 1 adjustment, got %d: %+v", len(adjs), adjs)
	}
	a := adjs[0]
	if a.Severity != High || a.Calories != 200 || a.Protein != 25 {
		t.Errorf("got %+v, want High +200 kcal +25 g", a)
	}

	stats.BodyFat = 18
	adjs = Calculate(stats, dietmode.StandardCut, Progress{WeeklyChange: -0.5, LeanChange: ptr(-0.3)})
	if len(adjs) != 1 || adjs[0].Protein != 35 {
		t.Errorf("expected +35 g protein at 18%% body fat, got %+v", adjs)
	}
}

func TestCalculate_LeanMassLossIgnoredOnAggressiveCut(t *testing.T) {
	adjs := Calculate(Stats{BodyFat: 22}, dietmode.AggressiveCut, Progress{WeeklyChange: -0.8, LeanChange: ptr(-0.3)})
	if len(adjs) != 0 {
		t.Errorf("expected no adjustments, got %+v", adjs)
	}
}

func TestCalculate_RateRule(t *testing.T) {
	tests := []struct {
		name     string
		mode     dietmode.Mode
		weekly   float64
		severity Severity
		calories int
		protein  int
		fires    bool
	}{
		{"cut too fast", dietmode.StandardCut, -1.0, High, 200, 5, true},
		{"cut on target", dietmode.StandardCut, -0.5, 0, 0, 0, false},
		{"conservative cut in range", dietmode.ConservativeCut, -0.2, 0, 0, 0, false},
		{"lean bulk too slow", dietmode.LeanBulk, 0, Medium, 200, 0, true},
		{"lean bulk too fast", dietmode.LeanBulk, 0.5, High, -200, 0, true},
		{"standard bulk on target", dietmode.StandardBulk, 0.5, 0, 0, 0, false},
		{"maintenance has no rate rule", dietmode.Maintenance, 0.3, 0, 0, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adjs := Calculate(Stats{BodyFat: 15}, tc.mode, Progress{WeeklyChange: tc.weekly})
			if !tc.fires {
				if len(adjs) != 0 {
					t.Errorf("expected no adjustments, got %+v", adjs)
				}
				return
			}
			if len(adjs) != 1 {
				t.Fatalf("expected 1 adjustment, got %+v", adjs)
			}
			a := adjs[0]
			if a.Severity != tc.severity || a.Calories != tc.calories || a.Protein != tc.protein {
				t.Errorf("got %s %d/%d, want %s %d/%d", a.Severity, a.Calories, a.Protein, tc.severity, tc.calories, tc.protein)
			}
		})
	}
}

func TestCalculate_PlateauRule(t *testing.T) {
	truePlateau := plateau.Classify(0.05, 1, plateau.DefaultThreshold)
	lowAdherence := plateau.Classify(0.05, 0.5, plateau.DefaultThreshold)

	tests := []struct {
		name     string
		mode     dietmode.Mode
		result   plateau.Result
		n        int
		severity Severity
		calories int
	}{
		{"cut true plateau", dietmode.ConservativeCut, truePlateau, 1, Medium, -300},
		{"bulk true plateau", dietmode.StandardBulk, truePlateau, 1, Medium, 300},
		{"maintenance true plateau", dietmode.Maintenance, truePlateau, 0, 0, 0},
		{"low adherence is advisory", dietmode.Maintenance, lowAdherence, 1, Low, 0},
		{"insufficient data", dietmode.Maintenance, plateau.Result{State: plateau.Insufficient}, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Weekly change sits inside every mode's band so only the plateau rule can fire.
			weekly := tc.mode.TargetRate()
			adjs := Calculate(Stats{BodyFat: 15}, tc.mode, Progress{WeeklyChange: weekly, Plateau: tc.result})
			if len(adjs) != tc.n {
				t.Fatalf("expected %d adjustments, got %+v", tc.n, adjs)
			}
			if tc.n == 0 {
				return
			}
			if adjs[0].Severity != tc.severity || adjs[0].Calories != tc.calories || adjs[0].Protein != 0 {
				t.Errorf("got %+v", adjs[0])
			}
		})
	}
}

func TestCalculate_RulesFireIndependently(t *testing.T) {
	p := Progress{
		WeeklyChange: 0.05,
		LeanChange:   ptr(-0.2),
		Plateau:      plateau.Classify(0.05, 1, plateau.DefaultThreshold),
	}
	adjs := Calculate(Stats{BodyFat: 22}, dietmode.StandardCut, p)
	if len(adjs) != 3 {
		t.Fatalf("expected rate, lean-mass and plateau adjustments, got %+v", adjs)
	}
	if adjs[0].Severity != Medium || adjs[1].Severity != High || adjs[2].Severity != Medium {
		t.Errorf("unexpected rule order: %s, %s, %s", adjs[0].Severity, adjs[1].Severity, adjs[2].Severity)
	}
	if net := Net(adjs); net != (NetAdjustment{Calories: 200, Protein: 25}) {
		t.Errorf("Net = %+v, want the lean-mass adjustment", net)
	}
}

/* ─── Net ────────────────────────────────────────────────────────────── */

func TestNet(t *testing.T) {
	tests := []struct {
		name string
		adjs []Adjustment
		want NetAdjustment
	}{
		{"empty", nil, NetAdjustment{}},
		{"low only", []Adjustment{{Calories: 100, Protein: 10, Severity: Low}}, NetAdjustment{}},
		{
			"high before medium",
			[]Adjustment{{Calories: 200, Protein: 25, Severity: High}, {Calories: -300, Severity: Medium}},
			NetAdjustment{Calories: 200, Protein: 25},
		},
		{
			"high after medium",
			[]Adjustment{{Calories: -300, Severity: Medium}, {Calories: 500, Severity: Medium}, {Calories: 200, Protein: 25, Severity: High}},
			NetAdjustment{Calories: 200, Protein: 25},
		},
		{
			"medium wins over low",
			[]Adjustment{{Severity: Low}, {Calories: -200, Severity: Medium}},
			NetAdjustment{Calories: -200},
		},
		{
			"negative deltas keep the larger",
			[]Adjustment{{Calories: -300, Severity: Medium}, {Calories: -200, Severity: Medium}},
			NetAdjustment{Calories: -200},
		},
		{
			"maxima taken independently",
			[]Adjustment{{Calories: 150, Protein: 30, Severity: High}, {Calories: 250, Protein: 5, Severity: High}},
			NetAdjustment{Calories: 250, Protein: 30},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Net(tc.adjs); got != tc.want {
				t.Errorf("Net() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

/* ─── FromLogs / LatestStats ─────────────────────────────────────────── */

func flatLogs(n int) []trend.DailyLog {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	logs := make([]trend.DailyLog, n)
	for i := range logs {
		logs[i] = trend.NewDailyLog(start.AddDate(0, 0, i), 80, ptr(15.0), 2200, 160, 220, 70)
	}
	return logs
}

func TestFromLogs(t *testing.T) {
	if adjs := FromLogs(flatLogs(5), Stats{BodyFat: 15}, dietmode.StandardCut); adjs != nil {
		t.Errorf("expected nil with 5 logs, got %+v", adjs)
	}

	// Flat weight for three weeks on a cut: too slow plus a true plateau.
	adjs := FromLogs(flatLogs(21), Stats{BodyFat: 15}, dietmode.StandardCut)
	if len(adjs) != 2 {
		t.Fatalf("expected 2 adjustments, got %+v", adjs)
	}
	if adjs[0].Calories != -200 || adjs[1].Calories != -300 {
		t.Errorf("got %d and %d, want -200 and -300", adjs[0].Calories, adjs[1].Calories)
	}
	if net := Net(adjs); net.Calories != -200 {
		t.Errorf("Net calories = %d, want -200", net.Calories)
	}
}

func TestLatestStats(t *testing.T) {
	if _, ok := LatestStats(nil); ok {
		t.Error("expected ok=false for no logs")
	}

	logs := flatLogs(3)
	logs[2].WeightKg = 79.5
	logs[2].BodyFatPct = nil
	logs[1].BodyFatPct = ptr(14.5)
	s, ok := LatestStats(logs)
	if !ok || s.WeightKg != 79.5 || s.BodyFat != 14.5 {
		t.Errorf("LatestStats = %+v, %v", s, ok)
	}

	for i := range logs {
		logs[i].BodyFatPct = nil
	}
	if s, _ := LatestStats(logs); s.BodyFat != NeutralBodyFat {
		t.Errorf("BodyFat = %v, want neutral default", s.BodyFat)
	}
}

/* ─── Severity ───────────────────────────────────────────────────────── */

func TestSeverityOrderAndJSON(t *testing.T) {
	if !(Low < Medium && Medium < High) {
		t.Fatal("severity must be ordered Low < Medium < High")
	}
	b, err := json.Marshal(Adjustment{Severity: High})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Adjustment
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Severity != High {
		t.Errorf("round trip severity = %s", back.Severity)
	}
	var s Severity
	if err := s.UnmarshalText([]byte("urgent")); err == nil {
		t.Error("expected error for unknown severity")
	}
}
