package dashboard

import (
	"slices"

	"golang.org/x/text/cases"

	"github.com/tphakala/weatherboard/internal/weather"
)

// Phase is the startup phase of the dashboard.
type Phase string

// Bootstrap phases. PhaseReady is terminal in every branch.
const (
	PhaseStarting            Phase = "STARTING"
	PhaseRestored            Phase = "RESTORED"
	PhaseRestoreFailed       Phase = "RESTORE_FAILED"
	PhaseLocating            Phase = "LOCATING"
	PhaseLocated             Phase = "LOCATED"
	PhaseLocationFailed      Phase = "LOCATION_FAILED"
	PhaseLocationUnsupported Phase = "LOCATION_UNSUPPORTED"
	PhaseReady               Phase = "READY"
)

// User facing messages.
const (
	MsgDuplicateCity       = "City already added to dashboard"
	MsgCityNotFound        = "City not found. Please check the spelling and try again."
	MsgLocationFailed      = "Unable to access your location. Please search for a city manually."
	MsgLocationUnsupported = "Geolocation is not supported on this system."
	MsgLocationFetchFailed = "Failed to fetch weather data for your location"
	MsgLocating            = "Getting weather for your location..."
	MsgSaveFailed          = "Unable to save your cities. Changes may be lost on restart."
	MsgLoadFailed          = "Unable to load your saved cities. Changes will not be saved."
	MsgBusy                = "Please wait for the current request to finish."
)

// State is the dashboard state rendered by the views. Values are treated as
// immutable: mutations return a new State.
type State struct {
	Records     []weather.Record
	Loading     bool // a city fetch is in flight, inputs are disabled
	Locating    bool // the startup location lookup is running
	InitialLoad bool // bootstrap has not finished
	Banner      string
	Phase       Phase
}

// NewState returns the state at application start.
func NewState() State {
	return State{Records: []weather.Record{}, InitialLoad: true, Phase: PhaseStarting}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	c.Records = make([]weather.Record, len(s.Records))
	for i := range s.Records {
		c.Records[i] = *s.Records[i].Clone()
	}
	return c
}

// ShowEmpty reports whether the empty-state indicator is shown.
func (s State) ShowEmpty() bool {
	return !s.InitialLoad && len(s.Records) == 0 && !s.Loading
}

// HasName reports whether a record with a case-insensitively equal name exists.
func (s State) HasName(name string) bool {
	folded := cases.Fold().String(name)
	return slices.ContainsFunc(s.Records, func(r weather.Record) bool {
		return cases.Fold().String(r.Name) == folded
	})
}

// HasID reports whether a record with id exists.
func (s State) HasID(id int64) bool {
	return slices.ContainsFunc(s.Records, func(r weather.Record) bool { return r.ID == id })
}

// withRecord appends r.
func (s State) withRecord(r weather.Record) State {
	next := s.Clone()
	next.Records = append(next.Records, *r.Clone())
	return next
}

// withoutRecord removes the record with id. ok is false if it was absent.
func (s State) withoutRecord(id int64) (next State, ok bool) {
	idx := slices.IndexFunc(s.Records, func(r weather.Record) bool { return r.ID == id })
	if idx < 0 {
		return s, false
	}
	next = s.Clone()
	next.Records = slices.Delete(next.Records, idx, idx+1)
	return next, true
}

// restored replaces the records with a restored list, dropping repeated ids.
func (s State) restored(records []weather.Record) State {
	next := s.Clone()
	next.Records = make([]weather.Record, 0, len(records))
	for i := range records {
		if next.HasID(records[i].ID) {
			continue
		}
		next.Records = append(next.Records, *records[i].Clone())
	}
	return next
}

// setLoading marks a city fetch as in flight or finished.
func (s State) setLoading(loading bool) State {
	next := s.Clone()
	next.Loading = loading
	return next
}

// withBanner sets or clears (empty message) the banner.
func (s State) withBanner(message string) State {
	next := s.Clone()
	next.Banner = message
	return next
}

// withPhase moves to phase.
func (s State) withPhase(phase Phase) State {
	next := s.Clone()
	next.Phase = phase
	return next
}
