package domain

import (
	"errors"
	"testing"
)

func loadedFlow(t *testing.T, seats []Seat, overlay Overlay) *Flow {
	t.Helper()

	flow := NewFlow("session")
	flow.SelectShowing(
		Movie{ID: 7, Title: "Test Film"},
		Showing{ScheduleID: 3, MovieID: 7, StudioID: 1, StudioName: "Studio 1", Time: "14:00", BasePrice: 50000},
	)

	if err := flow.LoadSeats(flow.Generation, seats, overlay, false); err != nil {
		t.Fatalf("LoadSeats() error = %v", err)
	}

	return flow
}

func TestToggleSeatSelectability(t *testing.T) {
	seats := []Seat{
		{Code: "A1", Class: SeatRegular, Status: SeatAvailable},
		{Code: "A2", Class: SeatVIP, Status: SeatAvailable},
		{Code: "A3", Class: SeatRegular, Status: SeatOccupied},
		{Code: "A4", Class: SeatRegular, Status: SeatMaintenance},
		{Code: "A5", Class: SeatRegular, Status: SeatAvailable},
	}

	tests := []struct {
		name        string
		overlay     Overlay
		code        string
		wantChanged bool
	}{
		{
			name:        "available seat outside overlay is selectable",
			code:        "A1",
			wantChanged: true,
		},
		{
			name:        "occupied seat is a no-op",
			code:        "A3",
			wantChanged: false,
		},
		{
			name:        "maintenance seat is a no-op",
			code:        "A4",
			wantChanged: false,
		},
		{
			name:        "available seat inside overlay is a no-op",
			overlay:     NewOverlay([]string{"A5"}, "showing_endpoint", false),
			code:        "A5",
			wantChanged: false,
		},
		{
			name:        "maintenance seat stays blocked even when absent from overlay",
			overlay:     NewOverlay([]string{"A1"}, "showing_endpoint", false),
			code:        "A4",
			wantChanged: false,
		},
		{
			name:        "unknown seat code is a no-op",
			code:        "Z99",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := loadedFlow(t, seats, tt.overlay)

			changed, err := flow.ToggleSeat(tt.code)
			if err != nil {
				t.Fatalf("ToggleSeat() error = %v", err)
			}

			if changed != tt.wantChanged {
				t.Errorf("ToggleSeat(%q) changed = %v, want %v", tt.code, changed, tt.wantChanged)
			}

			if !tt.wantChanged && flow.Selection.Size() != 0 {
				t.Errorf("selection size = %d, want 0 after no-op toggle", flow.Selection.Size())
			}
		})
	}
}

func TestToggleSeatAddAndRemove(t *testing.T) {
	seats := []Seat{
		{Code: "A1", Class: SeatRegular, Status: SeatAvailable},
		{Code: "A2", Class: SeatVIP, Status: SeatAvailable},
	}

	flow := loadedFlow(t, seats, Overlay{})

	if _, err := flow.ToggleSeat("A1"); err != nil {
		t.Fatal(err)
	}
	if _, err := flow.ToggleSeat("A2"); err != nil {
		t.Fatal(err)
	}

	if flow.Phase != PhaseHasSelection {
		t.Errorf("phase = %s, want %s", flow.Phase, PhaseHasSelection)
	}

	if got := flow.Breakdown().GrandTotal; got != 120000 {
		t.Errorf("GrandTotal = %d, want 120000", got)
	}

	// Toggling again removes; the seat never appears twice.
	if _, err := flow.ToggleSeat("A1"); err != nil {
		t.Fatal(err)
	}
	if _, err := flow.ToggleSeat("A2"); err != nil {
		t.Fatal(err)
	}

	if flow.Selection.Size() != 0 {
		t.Errorf("selection size = %d, want 0", flow.Selection.Size())
	}

	if flow.Phase != PhaseLoaded {
		t.Errorf("phase = %s, want %s", flow.Phase, PhaseLoaded)
	}
}

func TestSelectShowingResetsSelection(t *testing.T) {
	seats := []Seat{
		{Code: "A1", Class: SeatRegular, Status: SeatAvailable},
		{Code: "A2", Class: SeatRegular, Status: SeatAvailable},
		{Code: "A3", Class: SeatRegular, Status: SeatAvailable},
	}

	flow := loadedFlow(t, seats, Overlay{})

	for _, code := range []string{"A1", "A2", "A3"} {
		if _, err := flow.ToggleSeat(code); err != nil {
			t.Fatal(err)
		}
	}

	previousGeneration := flow.Generation

	flow.SelectShowing(
		Movie{ID: 7},
		Showing{ScheduleID: 4, MovieID: 7, StudioID: 2, Time: "19:00", BasePrice: 60000},
	)

	if flow.Selection.Size() != 0 {
		t.Errorf("selection size = %d, want 0 after switching showings", flow.Selection.Size())
	}

	if flow.Phase != PhaseLoaded {
		t.Errorf("phase = %s, want %s", flow.Phase, PhaseLoaded)
	}

	if flow.Generation != previousGeneration+1 {
		t.Errorf("generation = %d, want %d", flow.Generation, previousGeneration+1)
	}

	if flow.SeatsLoaded {
		t.Error("seat snapshot should be discarded on showing switch")
	}
}

func TestLoadSeatsRejectsStaleGeneration(t *testing.T) {
	flow := NewFlow("session")
	flow.SelectShowing(Movie{ID: 7}, Showing{ScheduleID: 3, StudioID: 1, Time: "14:00", BasePrice: 50000})

	staleGeneration := flow.Generation

	// The user switches showings while the first fetch is still in flight.
	flow.SelectShowing(Movie{ID: 7}, Showing{ScheduleID: 4, StudioID: 2, Time: "19:00", BasePrice: 60000})

	staleSeats := []Seat{{Code: "A1", Status: SeatAvailable}}

	err := flow.LoadSeats(staleGeneration, staleSeats, Overlay{}, false)
	if !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("LoadSeats() error = %v, want ErrStaleGeneration", err)
	}

	if flow.SeatsLoaded {
		t.Error("stale snapshot must not be committed")
	}

	freshSeats := []Seat{{Code: "B1", Status: SeatAvailable}}

	if err := flow.LoadSeats(flow.Generation, freshSeats, Overlay{}, false); err != nil {
		t.Fatalf("LoadSeats() error = %v", err)
	}

	if flow.Seats[0].Code != "B1" {
		t.Errorf("seat map reflects %q, want fresh snapshot B1", flow.Seats[0].Code)
	}
}

func TestBeginCheckoutGuards(t *testing.T) {
	t.Run("empty selection is rejected", func(t *testing.T) {
		flow := loadedFlow(t, []Seat{{Code: "A1", Status: SeatAvailable}}, Overlay{})

		err := flow.BeginCheckout()
		if !errors.Is(err, ErrEmptySelection) {
			t.Fatalf("BeginCheckout() error = %v, want ErrEmptySelection", err)
		}

		if flow.Phase == PhaseSubmitting {
			t.Error("flow must not enter submitting phase on a rejected checkout")
		}
	})

	t.Run("unresolved showing id aborts the handoff", func(t *testing.T) {
		flow := NewFlow("session")
		flow.SelectShowing(Movie{ID: 7}, Showing{StudioID: 1, Time: "14:00", BasePrice: 50000})

		if err := flow.LoadSeats(flow.Generation, []Seat{{Code: "A1", Status: SeatAvailable}}, Overlay{}, false); err != nil {
			t.Fatal(err)
		}
		if _, err := flow.ToggleSeat("A1"); err != nil {
			t.Fatal(err)
		}

		err := flow.BeginCheckout()
		if !errors.Is(err, ErrShowingUnresolved) {
			t.Fatalf("BeginCheckout() error = %v, want ErrShowingUnresolved", err)
		}
	})

	t.Run("valid selection moves to submitting and back on cancel", func(t *testing.T) {
		flow := loadedFlow(t, []Seat{{Code: "A1", Status: SeatAvailable}}, Overlay{})

		if _, err := flow.ToggleSeat("A1"); err != nil {
			t.Fatal(err)
		}

		if err := flow.BeginCheckout(); err != nil {
			t.Fatalf("BeginCheckout() error = %v", err)
		}

		if flow.Phase != PhaseSubmitting {
			t.Errorf("phase = %s, want %s", flow.Phase, PhaseSubmitting)
		}

		flow.CancelCheckout()

		if flow.Phase != PhaseHasSelection {
			t.Errorf("phase = %s, want %s after cancel", flow.Phase, PhaseHasSelection)
		}
	})
}

func TestPruneSelection(t *testing.T) {
	seats := []Seat{
		{Code: "A1", Class: SeatRegular, Status: SeatAvailable},
		{Code: "A2", Class: SeatRegular, Status: SeatAvailable},
	}

	flow := loadedFlow(t, seats, Overlay{})

	for _, code := range []string{"A1", "A2"} {
		if _, err := flow.ToggleSeat(code); err != nil {
			t.Fatal(err)
		}
	}

	// Another client booked A2 in the meantime; a refreshed overlay now
	// carries it.
	flow.Overlay = NewOverlay([]string{"A2"}, "payment_scan", false)

	dropped := flow.PruneSelection()

	if len(dropped) != 1 || dropped[0] != "A2" {
		t.Errorf("dropped = %v, want [A2]", dropped)
	}

	if !flow.Selection.Contains("A1") || flow.Selection.Contains("A2") {
		t.Errorf("selection = %v, want only A1", flow.Selection.Codes())
	}
}
