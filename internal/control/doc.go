// Package control maps host key presses onto the engine and the global
// controls.
//
// Both hosts share one binding table:
//
//	1-8        switch to mode 1..8
//	Tab        next mode (Shift+Tab previous)
//	Space      pause / resume
//	+ / -      speed up / down
//	Up / Down  zoom in / out
//	e / E      prime emphasis up / down
//	w / W      line thickness up / down
//	b / B      mode blend up / down
//	a          toggle audio reactivity
//	r          re-initialize the current mode
//	0          restore default controls
//	t          cycle theme (host specific)
//	q, Ctrl+C  quit
//
// Any other key is forwarded to the active mode.
package control
