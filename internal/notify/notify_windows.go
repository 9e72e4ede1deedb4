//go:build windows

package notify

import "golang.org/x/sys/windows"

func alert(title, msg string) error {
	text, err := windows.UTF16PtrFromString(msg)
	if err != nil {
		return writeAlert(Output, title, msg)
	}
	caption, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return writeAlert(Output, title, msg)
	}
	if _, err := windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR); err != nil {
		return writeAlert(Output, title, msg)
	}
	return nil
}
