package style

import (
	"errors"
	"math"
	"testing"

	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/core"
)

func TestNewRegistry_Reserved(t *testing.T) {
	r := NewRegistry()
	if r.Len() != Reserved {
		t.Fatalf("Len() = %d, want %d", r.Len(), Reserved)
	}
	for id := uint64(0); id < Reserved; id++ {
		if _, ok := r.Get(id); !ok {
			t.Errorf("reserved id %d missing", id)
		}
	}
	if _, ok := r.Get(Reserved); ok {
		t.Error("first non-reserved id should be undefined")
	}
}

func TestRegistry_DefineGrows(t *testing.T) {
	r := NewRegistry()
	bold := core.Style{Attrs: core.AttrBold}
	r.Define(5, bold)

	if r.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", r.Len())
	}
	for id := uint64(2); id < 5; id++ {
		s, ok := r.Get(id)
		if !ok || !s.IsDefault() {
			t.Errorf("gap id %d = %+v, %v; want default", id, s, ok)
		}
	}
	if s, _ := r.Get(5); !s.Equals(bold) {
		t.Errorf("Get(5) = %+v", s)
	}

	// Redefining keeps the size.
	r.Define(3, bold)
	if r.Len() != 6 {
		t.Errorf("Len() after redefine = %d", r.Len())
	}
	// Reserved ids can be overridden by the engine.
	r.Define(IDSelection, bold)
	if s, _ := r.Get(IDSelection); !s.Equals(bold) {
		t.Errorf("selection style = %+v", s)
	}
}

func TestRegistry_DefineRejectsLargeID(t *testing.T) {
	tests := []uint64{MaxStyles, 1 << 62, math.MaxUint64}
	for _, id := range tests {
		r := NewRegistry()
		err := r.Define(id, core.Style{Attrs: core.AttrBold})
		if !errors.Is(err, ErrStyleID) {
			t.Errorf("Define(%d) = %v, want ErrStyleID", id, err)
		}
		if r.Len() != Reserved {
			t.Errorf("Define(%d) grew the table to %d", id, r.Len())
		}
		if _, ok := r.Get(id); ok {
			t.Errorf("Get(%d) found a rejected style", id)
		}
	}

	r := NewRegistry()
	if err := r.Define(MaxStyles-1, core.Style{}); err != nil {
		t.Errorf("Define(MaxStyles-1) = %v", err)
	}
}

func TestFromDefStyle(t *testing.T) {
	fg := uint32(4292032130)
	weight := uint16(700)
	yes := true
	s := FromDefStyle(&protocol.DefStyle{ID: 4, FgColor: &fg, Weight: &weight, Italic: &yes})

	if s.Fg == nil || s.Fg.String() != "#d33682" {
		t.Errorf("Fg = %v", s.Fg)
	}
	if s.Bg != nil {
		t.Errorf("Bg = %v, want nil", s.Bg)
	}
	if !s.Attrs.Has(core.AttrBold) || !s.Attrs.Has(core.AttrItalic) || s.Attrs.Has(core.AttrUnderline) {
		t.Errorf("Attrs = %b", s.Attrs)
	}

	light := uint16(400)
	if FromDefStyle(&protocol.DefStyle{Weight: &light}).Attrs.Has(core.AttrBold) {
		t.Error("weight 400 should not be bold")
	}
}
