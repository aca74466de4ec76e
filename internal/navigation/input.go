package navigation

// Input is a user action the controller reacts to.
type Input int

const (
	// PointerPrimary is a primary-button click. Steps forward.
	PointerPrimary Input = iota
	// PointerSecondary is a secondary-button click. Steps backward.
	PointerSecondary
	// KeyRight steps forward.
	KeyRight
	// KeyLeft steps backward.
	KeyLeft
	// KeyRun loads the embedded view of a Command page.
	KeyRun
	// KeyToggleRefresh turns auto-refresh of a Command page on or off.
	KeyToggleRefresh
)

// String returns a short name for logging
func (in Input) String() string {
	switch in {
	case PointerPrimary:
		return "pointer-primary"
	case PointerSecondary:
		return "pointer-secondary"
	case KeyRight:
		return "key-right"
	case KeyLeft:
		return "key-left"
	case KeyRun:
		return "key-run"
	case KeyToggleRefresh:
		return "key-toggle-refresh"
	default:
		return "unknown"
	}
}

// IsPointer reports whether the input came from a pointer button.
func (in Input) IsPointer() bool {
	return in == PointerPrimary || in == PointerSecondary
}

// Region is an area of the screen that received a pointer event. Regions
// nest through Parent; a click is attributed to the innermost one.
type Region struct {
	Name    string
	Control bool
	Parent  *Region
}

// InControl reports whether r or any of its ancestors is a control region
// (page selector, refresh controls, links). Pointer input there must not
// navigate. A nil region is the bare page.
func (r *Region) InControl() bool {
	for n := r; n != nil; n = n.Parent {
		if n.Control {
			return true
		}
	}
	return false
}
