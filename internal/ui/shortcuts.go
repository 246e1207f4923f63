package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

type command int

const (
	cmdNone command = iota
	cmdClose
	cmdUndo
	cmdRedo
)

type binding struct {
	key  fyne.KeyName
	mods fyne.KeyModifier
	cmd  command
}

// Ctrl and Cmd are both bound so the same keys work on every platform.
var bindings = []binding{
	{fyne.KeyZ, fyne.KeyModifierControl, cmdUndo},
	{fyne.KeyZ, fyne.KeyModifierSuper, cmdUndo},
	{fyne.KeyY, fyne.KeyModifierControl, cmdRedo},
	{fyne.KeyY, fyne.KeyModifierSuper, cmdRedo},
	{fyne.KeyZ, fyne.KeyModifierControl | fyne.KeyModifierShift, cmdRedo},
	{fyne.KeyZ, fyne.KeyModifierSuper | fyne.KeyModifierShift, cmdRedo},
}

// shortcutCommand maps a key press to a panel command.
func shortcutCommand(key fyne.KeyName, mods fyne.KeyModifier) command {
	if key == fyne.KeyEscape && mods == 0 {
		return cmdClose
	}
	for _, b := range bindings {
		if b.key == key && b.mods == mods {
			return b.cmd
		}
	}
	return cmdNone
}

// bindShortcuts registers the panel keys on c. Escape is not a shortcut in
// Fyne's sense, so it goes through the typed key handler.
func bindShortcuts(c fyne.Canvas, run func(command)) {
	for _, b := range bindings {
		cmd := b.cmd
		c.AddShortcut(&desktop.CustomShortcut{KeyName: b.key, Modifier: b.mods}, func(fyne.Shortcut) {
			run(cmd)
		})
	}
	c.SetOnTypedKey(func(e *fyne.KeyEvent) {
		if cmd := shortcutCommand(e.Name, 0); cmd == cmdClose {
			run(cmd)
		}
	})
}
