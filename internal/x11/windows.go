package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ClientWindows returns the managed top-level windows in _NET_CLIENT_LIST
// order (mapping order, oldest first).
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// WindowPID returns the _NET_WM_PID of a window. Clients that do not set
// the property report ok=false.
func (c *Connection) WindowPID(windowID xproto.Window) (int, bool) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil || pid == 0 {
		return 0, false
	}
	return int(pid), true
}

// WindowsOwnedBy returns the client windows whose _NET_WM_PID equals pid.
func (c *Connection) WindowsOwnedBy(pid int) ([]xproto.Window, error) {
	clients, err := c.ClientWindows()
	if err != nil {
		return nil, err
	}
	var owned []xproto.Window
	for _, win := range clients {
		if p, ok := c.WindowPID(win); ok && p == pid {
			owned = append(owned, win)
		}
	}
	return owned, nil
}

// WindowsByPID groups the client windows by _NET_WM_PID, keeping client
// list order. Windows without the property are skipped.
func (c *Connection) WindowsByPID() (map[int][]xproto.Window, error) {
	clients, err := c.ClientWindows()
	if err != nil {
		return nil, err
	}
	byPID := make(map[int][]xproto.Window)
	for _, win := range clients {
		if p, ok := c.WindowPID(win); ok {
			byPID[p] = append(byPID[p], win)
		}
	}
	return byPID, nil
}

// WindowTitle returns _NET_WM_NAME, falling back to the ICCCM WM_NAME.
// Windows that have gone away, or never set a name, return "".
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		return title
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return title
	}
	return ""
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	return len(types) == 0
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window as EWMH describes.
// We build the message manually because the xgbutil ewmh helpers panic on
// this library version (uint vs int type assertion).
func (c *Connection) FocusWindow(windowID uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(windowID),
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
