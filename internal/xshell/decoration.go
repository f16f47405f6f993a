package xshell

import (
	"github.com/ItsNotGoodName/x-frame/pkg/window"
	"github.com/jezek/xgb/xproto"
)

// motifDecoration negotiates through _MOTIF_WM_HINTS. The window manager
// never refuses, so every request is answered with the mode it asked for.
type motifDecoration struct {
	toplevel  *Toplevel
	destroyed bool
}

func (d *motifDecoration) SetMode(mode window.DecorationMode) {
	if d.destroyed || d.toplevel.destroyed {
		return
	}
	d.apply(mode)
}

// UnsetMode deletes the hints, which leaves the window manager's default of
// drawing decorations itself.
func (d *motifDecoration) UnsetMode() {
	if d.destroyed || d.toplevel.destroyed {
		return
	}
	t := d.toplevel
	xproto.DeleteProperty(t.backend.conn, t.wid, t.backend.atoms.motifWMHints)
	t.backend.post(t.wid, window.MsgDecorationMode{Mode: window.ModeServerSide})
}

// Destroy goes back to client-side decorations.
func (d *motifDecoration) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if t := d.toplevel; !t.destroyed {
		if err := t.backend.setProperty(t.wid, t.backend.atoms.motifWMHints, t.backend.atoms.motifWMHints, motifHints(false)); err != nil {
			t.log.Error("Failed to restore motif hints", "error", err)
		}
	}
}

func (d *motifDecoration) apply(mode window.DecorationMode) {
	t := d.toplevel
	decorated := mode != window.ModeClientSide
	if err := t.backend.setProperty(t.wid, t.backend.atoms.motifWMHints, t.backend.atoms.motifWMHints, motifHints(decorated)); err != nil {
		t.log.Error("Failed to set motif hints", "error", err)
		return
	}
	if decorated {
		t.backend.post(t.wid, window.MsgDecorationMode{Mode: window.ModeServerSide})
	} else {
		t.backend.post(t.wid, window.MsgDecorationMode{Mode: window.ModeClientSide})
	}
}
