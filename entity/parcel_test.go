package entity

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ParcelStatus
		want     bool
	}{
		{ParcelCreated, ParcelPickedUp, true},
		{ParcelCreated, ParcelInTransit, false},
		{ParcelCreated, ParcelDelivered, false},
		{ParcelPickedUp, ParcelInTransit, true},
		{ParcelPickedUp, ParcelFailed, true},
		{ParcelPickedUp, ParcelDelivered, false},
		{ParcelInTransit, ParcelOutForDelivery, true},
		{ParcelInTransit, ParcelReturned, true},
		{ParcelOutForDelivery, ParcelDelivered, true},
		{ParcelOutForDelivery, ParcelCreated, false},
		{ParcelDelivered, ParcelInTransit, false},
		{ParcelFailed, ParcelPickedUp, false},
		{ParcelReturned, ParcelCreated, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []ParcelStatus{ParcelDelivered, ParcelFailed, ParcelReturned}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []ParcelStatus{ParcelCreated, ParcelPickedUp, ParcelInTransit, ParcelOutForDelivery} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
