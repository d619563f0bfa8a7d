package scratch

import "testing"

func TestParseColorHex(t *testing.T) {
	hsv, err := ParseColor("#ff0000")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if hsv.Hue != 0 || hsv.Saturation != 1 || hsv.Value != 1 {
		t.Errorf("ParseColor(#ff0000) = %+v, want pure red HSV", hsv)
	}
}

func TestParseColorShortHex(t *testing.T) {
	long, err := ParseColor("#ff00aa")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	short, err := ParseColor("#f0a")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if long != short {
		t.Errorf("#f0a = %+v, want same as #ff00aa = %+v", short, long)
	}
}

func TestParseColorInvalid(t *testing.T) {
	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("expected error for unparseable color")
	}
	if _, err := ParseColor("#1234"); err == nil {
		t.Error("expected error for wrong-length hex color")
	}
}

func TestSetShadeBlackAtZero(t *testing.T) {
	got := SetShade(HSV{Hue: 120, Saturation: 1, Value: 1}, 0)
	if got.Value > 0.2 {
		t.Errorf("SetShade at 0 should be near black, got %+v", got)
	}
}

func TestSetShadeWhiteAtHundred(t *testing.T) {
	got := SetShade(HSV{Hue: 120, Saturation: 1, Value: 1}, 100)
	if got.Saturation > 0.2 || got.Value < 0.8 {
		t.Errorf("SetShade at 100 should be near white, got %+v", got)
	}
}

func TestSetHuePivot(t *testing.T) {
	got := SetHue(HSV{Hue: 10, Saturation: 0.5, Value: 0.5}, 200)
	want := HSV{Hue: 360, Saturation: 0, Value: 0}
	if got != want {
		t.Errorf("SetHue(200) = %+v, want %+v", got, want)
	}
}

func TestSetHueLinear(t *testing.T) {
	got := SetHue(HSV{Saturation: 1, Value: 1}, 100)
	if got.Hue != 180 {
		t.Errorf("SetHue(100).Hue = %v, want 180", got.Hue)
	}
}
