package pvadapter

import (
	"errors"
	"testing"

	"github.com/go-test/deep"
	"github.com/jabolina/pvadapter/clock"
)

func TestArray_StandAloneSendReceiveFailWithWrongRole(t *testing.T) {
	a := NewStandAloneArray[uint16]("standalone", []uint16{1, 2, 3})
	if diff := deep.Equal(a.Get(), []uint16{1, 2, 3}); diff != nil {
		t.Fatalf("Get() diff: %v", diff)
	}
	if _, err := a.Send(); !errors.Is(err, ErrWrongRole) {
		t.Fatalf("Send() error = %v, want ErrWrongRole", err)
	}
	if _, err := a.Receive(); !errors.Is(err, ErrWrongRole) {
		t.Fatalf("Receive() error = %v, want ErrWrongRole", err)
	}
}

func TestArray_ConstructionRejectsTooFewBuffers(t *testing.T) {
	if _, err := newArrayReceiver[uint16]("pv", []uint16{0, 0}, 1, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("newArrayReceiver(numberOfBuffers=1) error = %v, want ErrInvalidArgument", err)
	}
}

func newArrayPair(t *testing.T, length, numberOfBuffers int) (sender, receiver *Array[uint16]) {
	t.Helper()
	initial := make([]uint16, length)
	receiver, err := newArrayReceiver[uint16]("pv", initial, numberOfBuffers, nil)
	if err != nil {
		t.Fatalf("newArrayReceiver: %v", err)
	}
	sender, err = newArraySender[uint16](receiver, nil, nil, nil)
	if err != nil {
		t.Fatalf("newArraySender: %v", err)
	}
	return sender, receiver
}

func TestArray_SendThenReceiveRoundTripNoElementCopy(t *testing.T) {
	sender, receiver := newArrayPair(t, 3, 2)

	outgoing := sender.Get()
	outgoing[0], outgoing[1], outgoing[2] = 10, 20, 30
	backingArrayStart := &outgoing[0]

	if _, err := sender.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	accepted, err := receiver.Receive()
	if err != nil || !accepted {
		t.Fatalf("Receive: accepted=%v err=%v", accepted, err)
	}
	if diff := deep.Equal(receiver.Get(), []uint16{10, 20, 30}); diff != nil {
		t.Fatalf("Get() diff: %v", diff)
	}
	if &receiver.Get()[0] != backingArrayStart {
		t.Fatalf("receiver's backing array is not the one the sender filled; a copy occurred")
	}
}

func TestArray_SenderWorkingBufferIsReplacedAfterSend(t *testing.T) {
	sender, _ := newArrayPair(t, 2, 3)
	first := sender.Get()
	firstStart := &first[0]

	if _, err := sender.Send(); err != nil {
		t.Fatalf("Send: %v", err)
	}

	second := sender.Get()
	if &second[0] == firstStart {
		t.Fatalf("sender kept writing into the buffer it just shipped to the ring")
	}
	if len(second) != 2 {
		t.Fatalf("replacement working buffer length = %d, want 2", len(second))
	}
}

func TestArray_OverflowDropsOldestAfterNPlusOneSends(t *testing.T) {
	const n = 2
	sender, receiver := newArrayPair(t, 1, n)

	var lastResult SendResult
	for i := 0; i < n+1; i++ {
		sender.Set(0, uint16(i))
		result, err := sender.Send()
		if err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
		lastResult = result
	}
	if !lastResult.Overflowed() {
		t.Fatalf("the (n+1)th send did not report an overflow drop")
	}

	for i := 0; i < n; i++ {
		accepted, err := receiver.Receive()
		if err != nil || !accepted {
			t.Fatalf("receive %d: accepted=%v err=%v", i, accepted, err)
		}
		want := uint16(i + 1) // value 0 was dropped
		if receiver.Get()[0] != want {
			t.Fatalf("receive %d got %d, want %d", i, receiver.Get()[0], want)
		}
	}
}

func TestArray_VersionGatedReceiveRejectsStaleValue(t *testing.T) {
	receiver, err := newArrayReceiver[uint16]("pv", []uint16{0}, 4, clock.NewMonotonicVersionSource())
	if err != nil {
		t.Fatalf("newArrayReceiver: %v", err)
	}
	versionSource := clock.NewMonotonicVersionSource()
	sender, err := newArraySender[uint16](receiver, nil, versionSource, nil)
	if err != nil {
		t.Fatalf("newArraySender: %v", err)
	}

	sender.Set(0, 10)
	if _, err := sender.SendVersion(5); err != nil {
		t.Fatalf("SendVersion(5): %v", err)
	}
	sender.Set(0, 20)
	if _, err := sender.SendVersion(3); err != nil {
		t.Fatalf("SendVersion(3): %v", err)
	}

	accepted, err := receiver.Receive()
	if err != nil || !accepted {
		t.Fatalf("first receive: accepted=%v err=%v", accepted, err)
	}
	if receiver.Get()[0] != 10 {
		t.Fatalf("first receive got %d, want 10", receiver.Get()[0])
	}

	accepted, err = receiver.Receive()
	if err != nil {
		t.Fatalf("second receive: %v", err)
	}
	if accepted {
		t.Fatalf("second receive accepted a stale (version 3 <= 5) buffer")
	}
}
