package fixedpoint

import "testing"

func TestRoundShiftRNEVectors(t *testing.T) {
	cases := []struct {
		x    int64
		want int32
	}{
		{0x00018000, 2},
		{0x00028000, 2},
		{0x00038000, 4},
		{-0x18000, -2},  // 0xFFFFFFFFFFFE8000
		{-0x28000, -2},  // 0xFFFFFFFFFFFD8000
	}
	for _, tc := range cases {
		got, faults := RoundShiftRNE(tc.x, 16)
		if got != tc.want {
			t.Fatalf("RoundShiftRNE(0x%x, 16) = %d, want %d", tc.x, got, tc.want)
		}
		if faults.Any() {
			t.Fatalf("unexpected faults for 0x%x: %032b", tc.x, faults.Bits())
		}
	}
}

func TestRoundShiftRNETiesToEven(t *testing.T) {
	// d = 1<<2 = 4, h = 2. x=2 -> r=2 (tie) -> q=0, even already.
	// x=6 -> q=1 r=2 (tie) -> q becomes 2 (even).
	got, _ := RoundShiftRNE(2, 2)
	if got != 0 {
		t.Fatalf("tie at 2/4 should round to even 0, got %d", got)
	}
	got, _ = RoundShiftRNE(6, 2)
	if got != 2 {
		t.Fatalf("tie at 6/4 should round to even 2, got %d", got)
	}
	got, _ = RoundShiftRNE(-2, 2)
	if got != 0 {
		t.Fatalf("tie at -2/4 should round to even 0, got %d", got)
	}
	got, _ = RoundShiftRNE(-6, 2)
	if got != -2 {
		t.Fatalf("tie at -6/4 should round to even -2, got %d", got)
	}
}

func TestRoundShiftRNEShiftZero(t *testing.T) {
	got, faults := RoundShiftRNE(5, 0)
	if got != 5 || faults.Any() {
		t.Fatalf("shift 0 should delegate to clamp: got %d faults %032b", got, faults.Bits())
	}
}

func TestRoundShiftRNERejectsLargeShift(t *testing.T) {
	got, faults := RoundShiftRNE(123, 63)
	if got != 0 || !faults.Overflow() {
		t.Fatalf("shift > 62 must be rejected with overflow, got %d faults %032b", got, faults.Bits())
	}
}

func TestClampToInt32(t *testing.T) {
	cases := []struct {
		x        int64
		want     int32
		overflow bool
		underflow bool
	}{
		{0, 0, false, false},
		{2147483647, 2147483647, false, false},
		{2147483648, 2147483647, true, false},
		{-2147483648, -2147483648, false, false},
		{-2147483649, -2147483648, false, true},
	}
	for _, tc := range cases {
		got, faults := ClampToInt32(tc.x)
		if got != tc.want {
			t.Fatalf("ClampToInt32(%d) = %d, want %d", tc.x, got, tc.want)
		}
		if faults.Overflow() != tc.overflow || faults.Underflow() != tc.underflow {
			t.Fatalf("ClampToInt32(%d) faults = %032b, want overflow=%v underflow=%v", tc.x, faults.Bits(), tc.overflow, tc.underflow)
		}
	}
}

func TestAdd64SatOverflow(t *testing.T) {
	_, faults := Add64Sat(1<<62, 1<<62)
	if !faults.Overflow() {
		t.Fatalf("expected overflow")
	}
	_, faults = Add64Sat(-(1 << 62), -(1 << 62)-1)
	if !faults.Underflow() {
		t.Fatalf("expected underflow")
	}
}

func TestSub64Sat(t *testing.T) {
	got, faults := Sub64Sat(10, 3)
	if got != 7 || faults.Any() {
		t.Fatalf("Sub64Sat(10,3) = %d faults %032b", got, faults.Bits())
	}
}
