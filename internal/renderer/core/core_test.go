package core

import "testing"

func TestColorFromARGB(t *testing.T) {
	c := ColorFromARGB(4292032130)
	if c != (Color{R: 211, G: 54, B: 130}) {
		t.Errorf("ColorFromARGB() = %+v", c)
	}
	if c.String() != "#d33682" {
		t.Errorf("String() = %q, want #d33682", c.String())
	}
}

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#d33682", Color{R: 211, G: 54, B: 130}, true},
		{"fff", Color{R: 255, G: 255, B: 255}, true},
		{"#12", Color{}, false},
		{"#zzzzzz", Color{}, false},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ColorFromHex(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ColorFromHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestColor_String(t *testing.T) {
	if ColorDefault.String() != "default" {
		t.Errorf("default = %q", ColorDefault.String())
	}
	if ColorFromIndex(42).String() != "idx(42)" {
		t.Errorf("indexed = %q", ColorFromIndex(42).String())
	}
}

func TestColor_Equals(t *testing.T) {
	if !ColorDefault.Equals(Color{Default: true, R: 9}) {
		t.Error("default colors should be equal")
	}
	if ColorDefault.Equals(ColorFromRGB(0, 0, 0)) {
		t.Error("default should not equal black")
	}
	if ColorFromIndex(1).Equals(ColorFromRGB(1, 0, 0)) {
		t.Error("indexed should not equal rgb")
	}
	if !ColorFromIndex(1).Equals(Color{R: 1, G: 5, Indexed: true}) {
		t.Error("indexed colors compare by index")
	}
}

func TestColor_To256(t *testing.T) {
	tests := []struct {
		in   Color
		want uint8
	}{
		{ColorFromRGB(0, 0, 0), 16},
		{ColorFromRGB(255, 255, 255), 231},
		{ColorFromRGB(255, 0, 0), 196},
		{ColorFromRGB(0, 0, 255), 21},
		{ColorFromRGB(128, 128, 128), 244},
	}
	for _, tt := range tests {
		got := tt.in.To256()
		if !got.Indexed || got.R != tt.want {
			t.Errorf("%v.To256() = %v, want idx(%d)", tt.in, got, tt.want)
		}
	}

	if got := ColorDefault.To256(); !got.Default {
		t.Errorf("default.To256() = %v", got)
	}
}

func TestColorMode(t *testing.T) {
	m, err := ParseColorMode("256")
	if err != nil || m != ColorMode256 {
		t.Fatalf("ParseColorMode(256) = %v, %v", m, err)
	}
	if !m.Convert(ColorFromRGB(1, 2, 3)).Indexed {
		t.Error("256 mode should convert to indexed")
	}
	if m, _ := ParseColorMode(""); m != ColorModeTrue {
		t.Errorf("empty mode = %v", m)
	}
	if ColorModeTrue.Convert(ColorFromRGB(1, 2, 3)).Indexed {
		t.Error("truecolor mode should keep rgb")
	}
	if _, err := ParseColorMode("16"); err == nil {
		t.Error("ParseColorMode(16) should fail")
	}
	if ColorMode256.String() != "256" || ColorModeTrue.String() != "truecolor" {
		t.Error("unexpected mode names")
	}
}

func TestStyle_Equals(t *testing.T) {
	red := ColorFromRGB(255, 0, 0)
	red2 := ColorFromRGB(255, 0, 0)
	a := Style{Fg: &red, Attrs: AttrBold}
	b := Style{Fg: &red2, Attrs: AttrBold}
	if !a.Equals(b) {
		t.Error("styles with equal colors should be equal")
	}
	if a.Equals(Style{Attrs: AttrBold}) {
		t.Error("nil and set fg differ")
	}
	if !(Style{}).IsDefault() || a.IsDefault() {
		t.Error("IsDefault mismatch")
	}
	if !a.Attrs.With(AttrItalic).Has(AttrItalic) || a.Attrs.Has(AttrUnderline) {
		t.Error("attribute flags mismatch")
	}
}

func TestRect(t *testing.T) {
	r := Rect{Top: 1, Left: 2, Height: 3, Width: 4}
	if r.Bottom() != 4 {
		t.Errorf("Bottom() = %d", r.Bottom())
	}
	if !r.Contains(NewScreenPos(1, 2)) || r.Contains(NewScreenPos(4, 2)) || r.Contains(NewScreenPos(1, 6)) {
		t.Error("Contains mismatch")
	}
	if r.IsEmpty() || !(Rect{Width: 3}).IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}
