//go:build !windows

package notify

func alert(title, msg string) error {
	return writeAlert(Output, title, msg)
}
