// controls holds the grid sizing selector's state machine: three sizing
// modes, each staging its own settings, with a single active mode whose
// resolved configuration is pushed to the owner on every effective change.
package controls

import (
	"sync"

	"github.com/google/go-cmp/cmp"

	"vectorgrid/geometry"
)

// Mode is the closed set of grid sizing modes. Mode-keyed state lives in
// named fields with exhaustive switches, so adding a mode is a compile-time
// checked change.
type Mode string

const (
	ModeAspectRatio Mode = "aspect-ratio"
	ModeDensity     Mode = "density"
	ModeManual      Mode = "manual"
)

// ModeState is one mode's staged configuration. Each mode keeps its own copy
// so switching modes restores what the user last set there.
type ModeState struct {
	Settings    geometry.Settings
	Ratio       geometry.Ratio
	CustomRatio geometry.Ratio
}

// State is the full selector state.
type State struct {
	AspectRatio ModeState
	Density     ModeState
	Manual      ModeState
	ActiveMode  Mode
	LastUpdated Mode
}

func (s *State) modeState(m Mode) *ModeState {
	switch m {
	case ModeDensity:
		return &s.Density
	case ModeManual:
		return &s.Manual
	default:
		return &s.AspectRatio
	}
}

// Effective is the resolved configuration handed to the owner: what the
// geometry calculator should actually be fed for the active mode.
type Effective struct {
	Settings geometry.Settings
	Ratio    geometry.Ratio
}

// Props is the externally supplied configuration used to seed or re-sync the
// selector.
type Props struct {
	ActiveMode  Mode
	Settings    geometry.Settings
	Ratio       geometry.Ratio
	CustomRatio geometry.Ratio
}

// ActionType enumerates the selector's transitions.
type ActionType string

const (
	UpdateSettings    ActionType = "updateSettings"
	UpdateRatio       ActionType = "updateRatio"
	UpdateCustomRatio ActionType = "updateCustomRatio"
	SetActiveMode     ActionType = "setActiveMode"
	InitState         ActionType = "initState"
	SyncFromProps     ActionType = "syncFromProps"
)

// Action is one dispatched transition. Only the fields relevant to the
// action's type are read; Mode defaults to the active mode when empty.
type Action struct {
	Type     ActionType
	Mode     Mode
	Settings geometry.Settings
	Ratio    geometry.Ratio
	CustomW  float64
	CustomH  float64
	Props    Props
}

// Notifier receives the effective resolved configuration after every
// state-changing transition.
type Notifier func(Effective)

// Store owns the selector state. Dispatch is safe for concurrent use; the
// notifier is invoked synchronously under the store lock, so it must not
// re-dispatch.
type Store struct {
	mu     sync.Mutex
	state  State
	notify Notifier
}

// NewStore seeds the selector from external props. The notifier may be nil.
func NewStore(initial Props, notify Notifier) *Store {
	st := &Store{notify: notify}
	st.state = seeded(initial)
	return st
}

// seeded builds a full state from external props: every mode starts from the
// same staged values, and the props' active mode is selected.
func seeded(p Props) State {
	if p.ActiveMode == "" {
		p.ActiveMode = ModeAspectRatio
	}
	if p.CustomRatio.Mode == "" {
		p.CustomRatio = geometry.CustomRatio(1, 1)
	}
	ms := ModeState{
		Settings:    p.Settings,
		Ratio:       p.Ratio,
		CustomRatio: p.CustomRatio,
	}
	return State{
		AspectRatio: ms,
		Density:     ms,
		Manual:      ms,
		ActiveMode:  p.ActiveMode,
		LastUpdated: p.ActiveMode,
	}
}

// State returns a copy of the current selector state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Effective returns the resolved configuration for the active mode.
func (st *Store) Effective() Effective {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.effective()
}

func (s *State) effective() Effective {
	ms := s.modeState(s.ActiveMode)

	switch s.ActiveMode {
	case ModeManual:
		settings := ms.Settings
		settings.Rows, settings.Cols = manualFill(settings.Rows, settings.Cols)
		// The staged ratio still drives the zero-axis derivation in manual
		// mode; only the fixed axes come from the user.
		ratio := ms.Ratio
		if ratio.Mode == geometry.RatioCustom {
			ratio = ms.CustomRatio
		}
		return Effective{Settings: settings, Ratio: ratio}
	case ModeDensity:
		settings := ms.Settings
		settings.Rows, settings.Cols = 0, 0
		return Effective{Settings: settings, Ratio: geometry.Ratio{Mode: geometry.RatioAuto}}
	default:
		settings := ms.Settings
		settings.Rows, settings.Cols = 0, 0
		ratio := ms.Ratio
		if ratio.Mode == geometry.RatioCustom {
			ratio = ms.CustomRatio
		}
		return Effective{Settings: settings, Ratio: ratio}
	}
}

// manualFill applies the manual mode fill rule: one fixed axis leaves the
// other auto; neither fixed defaults rows to the density constant; both fixed
// pass through unchanged.
func manualFill(rows, cols int) (int, int) {
	switch {
	case rows > 0 && cols > 0:
		return rows, cols
	case rows > 0:
		return rows, 0
	case cols > 0:
		return 0, cols
	default:
		return geometry.DefaultDensity, 0
	}
}

// Dispatch applies one transition and notifies the owner if state changed.
func (st *Store) Dispatch(a Action) {
	st.mu.Lock()
	defer st.mu.Unlock()

	mode := a.Mode
	if mode == "" {
		mode = st.state.ActiveMode
	}

	switch a.Type {
	case UpdateSettings:
		st.state.modeState(mode).Settings = a.Settings
		st.state.LastUpdated = mode
	case UpdateRatio:
		st.state.modeState(mode).Ratio = a.Ratio
		st.state.LastUpdated = mode
	case UpdateCustomRatio:
		st.state.modeState(mode).CustomRatio = geometry.CustomRatio(a.CustomW, a.CustomH)
		st.state.LastUpdated = mode
	case SetActiveMode:
		st.state.ActiveMode = mode
	case InitState:
		st.state = seeded(a.Props)
	case SyncFromProps:
		// Re-seed only when the incoming props actually differ from what the
		// selector already derives, else syncs echo back and forth forever.
		if cmp.Equal(st.state.derivedProps(), normalized(a.Props)) {
			return
		}
		st.state = seeded(a.Props)
	default:
		return
	}

	if st.notify != nil {
		st.notify(st.state.effective())
	}
}

// derivedProps reconstructs the externally visible props from current state,
// for the sync deep-equality check.
func (s *State) derivedProps() Props {
	ms := s.modeState(s.ActiveMode)
	return Props{
		ActiveMode:  s.ActiveMode,
		Settings:    ms.Settings,
		Ratio:       ms.Ratio,
		CustomRatio: ms.CustomRatio,
	}
}

// normalized applies the same defaulting seeding applies, so equality
// compares like with like.
func normalized(p Props) Props {
	if p.ActiveMode == "" {
		p.ActiveMode = ModeAspectRatio
	}
	if p.CustomRatio.Mode == "" {
		p.CustomRatio = geometry.CustomRatio(1, 1)
	}
	return p
}
