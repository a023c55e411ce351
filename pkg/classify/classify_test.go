package classify

import "testing"

func TestClassifySingleSecretSaturated(t *testing.T) {
	valMax := uint32(0b11)
	c := Classify([]uint32{valMax}, valMax, -1)
	if !c.I1 {
		t.Fatalf("expected I1 for a saturated lone secret")
	}
	if c.I2 {
		t.Fatalf("I2 must be false when the tuple has no second secret")
	}
	if c.I1And {
		t.Fatalf("I1And requires two secrets, got true")
	}
	if !c.I1Or {
		t.Fatalf("I1Or must follow I1 when I2 is absent")
	}
}

func TestClassifyTwoSecretsBounded(t *testing.T) {
	valMax := uint32(0b111) // n=3 shares
	t1 := 1                 // threshold: weight > 1 counts as exceeding

	cases := []struct {
		name    string
		union   []uint32
		wantI1  bool
		wantI2  bool
		wantAnd bool
		wantOr  bool
	}{
		{"neither exceeds", []uint32{0b001, 0b010}, false, false, false, false},
		{"only first exceeds", []uint32{0b011, 0b001}, true, false, false, true},
		{"only second exceeds", []uint32{0b001, 0b110}, false, true, false, true},
		{"both exceed", []uint32{0b011, 0b101}, true, true, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(tc.union, valMax, t1)
			if c.I1 != tc.wantI1 || c.I2 != tc.wantI2 || c.I1And != tc.wantAnd || c.I1Or != tc.wantOr {
				t.Fatalf("Classify(%v) = %+v, want I1=%v I2=%v And=%v Or=%v",
					tc.union, c, tc.wantI1, tc.wantI2, tc.wantAnd, tc.wantOr)
			}
		})
	}
}

func TestClassifyEmptyUnion(t *testing.T) {
	c := Classify(nil, 0b11, -1)
	if c.I1 || c.I2 || c.I1And || c.I1Or {
		t.Fatalf("expected all-false categories for an empty union, got %+v", c)
	}
}
