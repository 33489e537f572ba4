package val

import "testing"

func TestEqIsToleranceAware(t *testing.T) {
	a := Of(1.0)
	b := Of(1.0 + Epsilon/2)
	if !a.Eq(b) {
		t.Errorf("%v.Eq(%v) = false, want true within Epsilon", a, b)
	}
	c := Of(1.0 + Epsilon*10)
	if a.Eq(c) {
		t.Errorf("%v.Eq(%v) = true, want false outside Epsilon", a, c)
	}
}

func TestCmpTreatsNearValuesAsEqual(t *testing.T) {
	a := Of(2.0)
	b := Of(2.0 + Epsilon/2)
	if got := a.Cmp(b); got != 0 {
		t.Errorf("Cmp within tolerance = %d, want 0", got)
	}
	if got := Of(1.0).Cmp(Of(2.0)); got != -1 {
		t.Errorf("Cmp(1,2) = %d, want -1", got)
	}
	if got := Of(2.0).Cmp(Of(1.0)); got != 1 {
		t.Errorf("Cmp(2,1) = %d, want 1", got)
	}
}

func TestLtLeGtGe(t *testing.T) {
	lo, hi := Of(1.0), Of(2.0)
	if !lo.Lt(hi) || lo.Gt(hi) {
		t.Errorf("Lt/Gt inconsistent for %v, %v", lo, hi)
	}
	if !lo.Le(lo) || !hi.Ge(hi) {
		t.Errorf("Le/Ge should hold for equal values")
	}
}

func TestIsZero(t *testing.T) {
	if !Of(Epsilon / 2).IsZero() {
		t.Error("value within Epsilon of zero should report IsZero")
	}
	if Of(1).IsZero() {
		t.Error("1 should not report IsZero")
	}
}

func TestAbs(t *testing.T) {
	if got := Of(-3.5).Abs(); got != Of(3.5) {
		t.Errorf("Abs(-3.5) = %v, want 3.5", got)
	}
}

func TestMinMax(t *testing.T) {
	a, b := Of(1.0), Of(2.0)
	if Min(a, b) != a {
		t.Errorf("Min(1,2) = %v, want 1", Min(a, b))
	}
	if Max(a, b) != b {
		t.Errorf("Max(1,2) = %v, want 2", Max(a, b))
	}
}

func TestClamp(t *testing.T) {
	lo, hi := Of(0.0), Of(1.0)
	if got := Of(-5).Clamp(lo, hi); got != lo {
		t.Errorf("Clamp(-5, 0, 1) = %v, want 0", got)
	}
	if got := Of(5).Clamp(lo, hi); got != hi {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Of(0.5).Clamp(lo, hi); got != Of(0.5) {
		t.Errorf("Clamp(0.5, 0, 1) = %v, want 0.5", got)
	}
}
