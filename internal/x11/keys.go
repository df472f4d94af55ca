package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const (
	keysymBackSpace = 0xff08
	keysymReturn    = 0xff0d
	keysymEscape    = 0xff1b
	keysymKPEnter   = 0xff8d
	keysymKP0       = 0xffb0
	keysymKP9       = 0xffb9

	// Unicode keysyms are the code point plus this offset.
	keysymUnicode    = 0x01000000
	keysymUnicodeMax = 0x0110ffff
)

// KeyAction is what a key press does to the password buffer.
type KeyAction int

const (
	KeyIgnore KeyAction = iota
	KeyAppend
	KeyErase
	KeyClear
	KeySubmit
)

// Key is a translated key press. Rune is set for KeyAppend only.
type Key struct {
	Action KeyAction
	Rune   rune
}

// Translate maps a keysym to its effect on the password buffer.
func Translate(sym xproto.Keysym) Key {
	switch {
	case sym == keysymReturn, sym == keysymKPEnter:
		return Key{Action: KeySubmit}
	case sym == keysymBackSpace:
		return Key{Action: KeyErase}
	case sym == keysymEscape:
		return Key{Action: KeyClear}
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		// Latin-1 keysyms equal their code points.
		return Key{Action: KeyAppend, Rune: rune(sym)}
	case sym >= keysymKP0 && sym <= keysymKP9:
		return Key{Action: KeyAppend, Rune: '0' + rune(sym-keysymKP0)}
	case sym >= keysymUnicode+0xa0 && sym <= keysymUnicodeMax:
		return Key{Action: KeyAppend, Rune: rune(sym - keysymUnicode)}
	}
	return Key{Action: KeyIgnore}
}

// pickKeysym chooses between the unshifted and shifted keysym of a key.
// Caps Lock only affects letters.
func pickKeysym(lower, upper xproto.Keysym, state uint16) xproto.Keysym {
	if upper == 0 {
		upper = lower
	}
	if state&xproto.ModMaskShift != 0 {
		return upper
	}
	if state&xproto.ModMaskLock != 0 && lower >= 'a' && lower <= 'z' {
		return upper
	}
	return lower
}

// resolveKeysym maps the keysym name chosen by keybind.LookupString back to
// one of the key's columns. Keysyms without a name fall back to pickKeysym.
func resolveKeysym(name string, lower, upper xproto.Keysym, state uint16) xproto.Keysym {
	switch {
	case name == "":
		return pickKeysym(lower, upper, state)
	case upper != 0 && name == keybind.KeysymToStr(upper):
		return upper
	case name == keybind.KeysymToStr(lower):
		return lower
	case len(name) == 1:
		// Case synthesised for a letter bound in one column only.
		return xproto.Keysym(name[0])
	}
	return pickKeysym(lower, upper, state)
}

func keyFromEvent(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) Key {
	lower := keybind.KeysymGet(xu, ev.Detail, 0)
	upper := keybind.KeysymGet(xu, ev.Detail, 1)
	name := keybind.LookupString(xu, ev.State, ev.Detail)
	return Translate(resolveKeysym(name, lower, upper, ev.State))
}
