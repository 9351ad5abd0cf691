package tui

import "time"

// ToastKind classifies a notification line.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastWarning
	ToastError
	ToastLoading
)

func (k ToastKind) String() string {
	switch k {
	case ToastWarning:
		return "Warning"
	case ToastError:
		return "Error"
	case ToastLoading:
		return "Loading"
	default:
		return "Info"
	}
}

// Toast is one transient notification with an expiry.
type Toast struct {
	Kind  ToastKind
	Text  string
	Until time.Time
}

// defaultToastDuration applies when a toast is pushed without an explicit one.
const defaultToastDuration = 4 * time.Second

// pruneToasts drops expired toasts, keeping display order.
func pruneToasts(toasts []Toast, now time.Time) []Toast {
	kept := toasts[:0]
	for _, toast := range toasts {
		if toast.Kind == ToastLoading || toast.Until.After(now) {
			kept = append(kept, toast)
		}
	}
	return kept
}
