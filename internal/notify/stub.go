//go:build !linux

package notify

// New returns a notifier that does nothing outside linux.
func New() (Notifier, error) {
	return nopNotifier{}, nil
}
