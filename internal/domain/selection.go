package domain

type FlowPhase string

const (
	PhaseEmpty        FlowPhase = "empty"
	PhaseLoaded       FlowPhase = "loaded"
	PhaseHasSelection FlowPhase = "has_selection"
	PhaseSubmitting   FlowPhase = "submitting"
	PhaseHandedOff    FlowPhase = "handed_off"
)

// Selection is the ordered set of seats the session has tentatively chosen
// for the current showing. A seat appears at most once.
type Selection struct {
	Seats []Seat `json:"seats"`
}

func (s Selection) Contains(code string) bool {
	for _, seat := range s.Seats {
		if seat.Code == code {
			return true
		}
	}

	return false
}

func (s Selection) Codes() []string {
	codes := make([]string, len(s.Seats))
	for i, seat := range s.Seats {
		codes[i] = seat.Code
	}

	return codes
}

func (s Selection) Size() int {
	return len(s.Seats)
}

func (s *Selection) remove(code string) {
	for i, seat := range s.Seats {
		if seat.Code == code {
			s.Seats = append(s.Seats[:i], s.Seats[i+1:]...)
			return
		}
	}
}

// Flow is the per-session booking flow state. It holds a read-only snapshot
// of the seat inventory plus the mutable selection, and carries a generation
// counter so results of seat fetches started under an older showing choice
// are discarded instead of overwriting newer state.
type Flow struct {
	ID          string    `json:"id"`
	Phase       FlowPhase `json:"phase"`
	Generation  uint64    `json:"generation"`
	Movie       *Movie    `json:"movie,omitempty"`
	Showing     *Showing  `json:"showing,omitempty"`
	Seats       []Seat    `json:"seats,omitempty"`
	Overlay     Overlay   `json:"overlay"`
	Placeholder bool      `json:"placeholder"`
	SeatsLoaded bool      `json:"seats_loaded"`
	Selection   Selection `json:"selection"`
}

func NewFlow(id string) *Flow {
	return &Flow{ID: id, Phase: PhaseEmpty}
}

// SelectShowing moves the flow to Loaded under a new generation. Any prior
// selection and seat snapshot are discarded, whatever their size.
func (f *Flow) SelectShowing(movie Movie, showing Showing) {
	f.Generation++
	f.Phase = PhaseLoaded
	f.Movie = &movie
	f.Showing = &showing
	f.Seats = nil
	f.Overlay = Overlay{}
	f.Placeholder = false
	f.SeatsLoaded = false
	f.Selection = Selection{}
}

// LoadSeats commits a fetched seat snapshot, but only when it was started
// under the flow's current generation. A snapshot fetched for a previously
// selected showing returns ErrStaleGeneration and leaves the flow untouched.
func (f *Flow) LoadSeats(generation uint64, seats []Seat, overlay Overlay, placeholder bool) error {
	if f.Showing == nil {
		return ErrNoShowingSelected
	}

	if generation != f.Generation {
		return ErrStaleGeneration
	}

	f.Seats = seats
	f.Overlay = overlay
	f.Placeholder = placeholder
	f.SeatsLoaded = true

	return nil
}

// ToggleSeat adds the seat to the selection, or removes it when already
// selected. Toggling a non-selectable seat is a deliberate no-op, not an
// error; the seat map simply renders it unavailable. Returns whether the
// selection changed.
func (f *Flow) ToggleSeat(code string) (bool, error) {
	if f.Showing == nil {
		return false, ErrNoShowingSelected
	}

	if !f.SeatsLoaded {
		return false, ErrSeatsNotLoaded
	}

	if f.Phase == PhaseSubmitting || f.Phase == PhaseHandedOff {
		return false, ErrCheckoutInProgress
	}

	if f.Selection.Contains(code) {
		f.Selection.remove(code)
		f.syncPhase()
		return true, nil
	}

	seat, ok := f.seatByCode(code)
	if !ok {
		return false, nil
	}

	if !seat.Selectable(f.Overlay) {
		return false, nil
	}

	f.Selection.Seats = append(f.Selection.Seats, seat)
	f.syncPhase()

	return true, nil
}

// BeginCheckout validates the flow is ready to hand off. An empty selection
// or an unresolved showing id aborts before anything touches the network.
func (f *Flow) BeginCheckout() error {
	if f.Showing == nil {
		return ErrNoShowingSelected
	}

	if f.Phase == PhaseSubmitting {
		return ErrCheckoutInProgress
	}

	if f.Selection.Size() == 0 {
		return ErrEmptySelection
	}

	if !f.Showing.Resolved() {
		return ErrShowingUnresolved
	}

	f.Phase = PhaseSubmitting

	return nil
}

// CancelCheckout returns a submitting flow to its pre-checkout phase.
func (f *Flow) CancelCheckout() {
	if f.Phase != PhaseSubmitting {
		return
	}

	f.syncPhase()
}

// Complete marks the flow handed off after a confirmed payment.
func (f *Flow) Complete() {
	f.Phase = PhaseHandedOff
	f.Selection = Selection{}
}

// PruneSelection drops selected seats that are no longer selectable under
// the flow's current overlay and returns the dropped codes. Used after a
// payment rejection to clear seats another client booked first.
func (f *Flow) PruneSelection() []string {
	var dropped []string

	kept := f.Selection.Seats[:0]
	for _, seat := range f.Selection.Seats {
		if seat.Selectable(f.Overlay) {
			kept = append(kept, seat)
			continue
		}
		dropped = append(dropped, seat.Code)
	}

	f.Selection.Seats = kept
	f.syncPhase()

	return dropped
}

// Breakdown prices the current selection against the current showing.
func (f *Flow) Breakdown() PriceBreakdown {
	if f.Showing == nil {
		return PriceBreakdown{}
	}

	return ComputeBreakdown(f.Selection, *f.Showing)
}

func (f *Flow) seatByCode(code string) (Seat, bool) {
	for _, seat := range f.Seats {
		if seat.Code == code {
			return seat, true
		}
	}

	return Seat{}, false
}

func (f *Flow) syncPhase() {
	if f.Selection.Size() > 0 {
		f.Phase = PhaseHasSelection
		return
	}

	f.Phase = PhaseLoaded
}
