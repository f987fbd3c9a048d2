package pvadapter

import (
	"errors"
	"testing"
)

func TestManagerPair_CreateProcessScalarReachableFromBothSides(t *testing.T) {
	cm, dm := NewManagerPair()

	deviceEndpoint, err := CreateProcessScalar[int32](dm, "/control/SETPOINT", 0, 2, ControlSystemToDevice)
	if err != nil {
		t.Fatalf("CreateProcessScalar: %v", err)
	}
	if !deviceEndpoint.IsReceiver() {
		t.Fatalf("device endpoint should be the receiver when direction is ControlSystemToDevice")
	}

	controlEndpoint, err := GetProcessScalar[int32](cm, "/control/SETPOINT")
	if err != nil {
		t.Fatalf("GetProcessScalar on control system side: %v", err)
	}
	if !controlEndpoint.IsSender() {
		t.Fatalf("control-system endpoint should be the sender when direction is ControlSystemToDevice")
	}

	if dm.Count() != 1 || cm.Count() != 1 {
		t.Fatalf("expected 1 registered PV per side, got device=%d control=%d", dm.Count(), cm.Count())
	}
}

func TestManagerPair_CreateProcessScalarDuplicateNameFails(t *testing.T) {
	_, dm := NewManagerPair()
	if _, err := CreateProcessScalar[int32](dm, "dup", 0, 2, DeviceToControlSystem); err != nil {
		t.Fatalf("first CreateProcessScalar: %v", err)
	}
	if _, err := CreateProcessScalar[int32](dm, "dup", 0, 2, DeviceToControlSystem); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second CreateProcessScalar error = %v, want ErrDuplicateName", err)
	}
}

func TestManagerPair_GetProcessVariableNotFound(t *testing.T) {
	cm, _ := NewManagerPair()
	if _, err := cm.GetProcessVariable("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProcessVariable error = %v, want ErrNotFound", err)
	}
}

func TestManagerPair_GetProcessScalarTypeMismatch(t *testing.T) {
	_, dm := NewManagerPair()
	if _, err := CreateProcessScalar[int32](dm, "v", 0, 2, DeviceToControlSystem); err != nil {
		t.Fatalf("CreateProcessScalar: %v", err)
	}
	if _, err := GetProcessScalar[float32](dm, "v"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("GetProcessScalar[float32] error = %v, want ErrTypeMismatch", err)
	}
}

func TestManagerPair_SendNotifiesReceiverSideQueue(t *testing.T) {
	cm, dm := NewManagerPair()
	if _, err := CreateProcessScalar[int32](dm, "v", 0, 2, DeviceToControlSystem); err != nil {
		t.Fatalf("CreateProcessScalar: %v", err)
	}

	deviceEndpoint, err := GetProcessScalar[int32](dm, "v")
	if err != nil {
		t.Fatalf("GetProcessScalar on device side: %v", err)
	}
	deviceEndpoint.Set(5)
	if _, err := deviceEndpoint.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	pv, ok := cm.NextNotification()
	if !ok {
		t.Fatalf("expected a pending notification on the control-system side")
	}
	if pv.Name() != "v" {
		t.Fatalf("notified PV name = %q, want %q", pv.Name(), "v")
	}
	if _, ok := cm.NextNotification(); ok {
		t.Fatalf("expected exactly one notification after a single send")
	}
}

func TestManagerPair_NamesPreservesCreationOrder(t *testing.T) {
	_, dm := NewManagerPair()
	names := []string{"a", "b", "c"}
	for _, name := range names {
		if _, err := CreateProcessScalar[int32](dm, name, 0, 2, DeviceToControlSystem); err != nil {
			t.Fatalf("CreateProcessScalar(%q): %v", name, err)
		}
	}
	got := dm.Names()
	if len(got) != len(names) {
		t.Fatalf("Names() = %v, want %v", got, names)
	}
	for i, name := range names {
		if got[i] != name {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], name)
		}
	}
}
