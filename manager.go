package pvadapter

import (
	"github.com/jabolina/pvadapter/clock"
	"github.com/jabolina/pvadapter/internal/logging"
	"github.com/jabolina/pvadapter/internal/notifyqueue"
	"github.com/jabolina/pvadapter/internal/registry"
	"github.com/jabolina/pvadapter/internal/telemetry"
)

// Manager is the common read surface both sides of a manager pair
// expose: named lookup, enumeration, and the notification queue drain
// a sync utility pulls from.
type Manager interface {
	// GetProcessVariable looks up a previously created PV by name,
	// type-erased. Returns ErrNotFound if name was never registered on
	// this side.
	GetProcessVariable(name string) (ProcessVariable, error)

	// GetAllProcessVariables returns every PV registered on this side,
	// in creation order.
	GetAllProcessVariables() []ProcessVariable

	// Names returns every registered name, in creation order.
	Names() []string

	// Count returns the number of PVs registered on this side.
	Count() int

	// NextNotification dequeues the next pending "a PV was sent in your
	// direction" event, or returns ok=false if none are pending.
	NextNotification() (pv ProcessVariable, ok bool)
}

// side is the machinery shared by DeviceManager and ControlSystemManager:
// a registry of this side's endpoints (senders and receivers), and the
// notification queue other side's senders publish into.
type side struct {
	label               telemetry.Side
	registry            *registry.Table[ProcessVariable]
	notify              *notifyqueue.Queue[ProcessVariable]
	logger              logging.Logger
	metrics             *telemetry.Metrics
	versionNumberSource clock.VersionNumberSource
}

func newSide(label telemetry.Side, capacity int, logger logging.Logger, metrics *telemetry.Metrics, versionNumberSource clock.VersionNumberSource) *side {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &side{
		label:               label,
		registry:            registry.New[ProcessVariable](capacity),
		notify:              notifyqueue.New[ProcessVariable](capacity),
		logger:              logger,
		metrics:             metrics,
		versionNumberSource: versionNumberSource,
	}
}

func (s *side) register(name string, pv ProcessVariable) error {
	if err := s.registry.Register(name, pv); err != nil {
		return duplicateNamef(name)
	}
	if s.metrics != nil {
		s.metrics.SetRegisteredVariables(s.label, s.registry.Count())
	}
	s.logger.Debugf("registered process variable %q (%s)", name, s.label)
	return nil
}

func (s *side) GetProcessVariable(name string) (ProcessVariable, error) {
	pv, err := s.registry.Get(name)
	if err != nil {
		return nil, notFoundf(name)
	}
	return pv, nil
}

func (s *side) GetAllProcessVariables() []ProcessVariable { return s.registry.All() }
func (s *side) Names() []string                           { return s.registry.Names() }
func (s *side) Count() int                                 { return s.registry.Count() }

func (s *side) NextNotification() (ProcessVariable, bool) {
	return s.notify.Next()
}

// DeviceManager owns the registry of process variables reachable from the
// device (real-time) side of a manager pair, and the queue of
// notifications published by control-system-side senders.
type DeviceManager struct {
	*side
	peer *ControlSystemManager
}

// ControlSystemManager owns the registry of process variables reachable
// from the control-system (event-driven) side of a manager pair, and the
// queue of notifications published by device-side senders.
type ControlSystemManager struct {
	*side
	peer *DeviceManager
}

// ManagerPairOption configures NewManagerPair.
type ManagerPairOption func(*managerPairSettings)

type managerPairSettings struct {
	capacity            int
	logger              logging.Logger
	metrics             *telemetry.Metrics
	versionNumberSource clock.VersionNumberSource
}

func defaultManagerPairSettings() managerPairSettings {
	return managerPairSettings{capacity: 16}
}

// WithManagerLogger supplies the logger both managers log through.
func WithManagerLogger(l logging.Logger) ManagerPairOption {
	return func(s *managerPairSettings) { s.logger = l }
}

// WithManagerMetrics supplies the Prometheus metrics instance PVs created
// through this pair report into. Pass nil (the default) to disable
// metrics entirely.
func WithManagerMetrics(m *telemetry.Metrics) ManagerPairOption {
	return func(s *managerPairSettings) { s.metrics = m }
}

// WithManagerCapacityHint sizes each side's initial registry capacity and
// its notification-queue capacity (default 16). Registries grow past it
// as PVs are created; notification queues do not grow with the PV count,
// and a notification pushed onto a full queue is dropped.
func WithManagerCapacityHint(n int) ManagerPairOption {
	return func(s *managerPairSettings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithManagerVersionNumberSource supplies the default VersionNumberSource
// new PVs created through this pair use when their own options don't
// specify one. nil (the default) means new PVs have no version gating
// unless they opt in individually.
func WithManagerVersionNumberSource(src clock.VersionNumberSource) ManagerPairOption {
	return func(s *managerPairSettings) { s.versionNumberSource = src }
}

// NewManagerPair creates a coupled device-side/control-system-side
// manager pair. Every PV this pair creates is reachable from both
// returned managers for its lifetime; there is no way to unregister one.
func NewManagerPair(opts ...ManagerPairOption) (*ControlSystemManager, *DeviceManager) {
	settings := defaultManagerPairSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	deviceSide := newSide(telemetry.SideDevice, settings.capacity, settings.logger, settings.metrics, settings.versionNumberSource)
	controlSide := newSide(telemetry.SideControlSystem, settings.capacity, settings.logger, settings.metrics, settings.versionNumberSource)

	dm := &DeviceManager{side: deviceSide}
	cm := &ControlSystemManager{side: controlSide}
	dm.peer = cm
	cm.peer = dm
	return cm, dm
}

// sideFor picks the registering side and the notified side for a PV
// created with the given direction: the sender's notifications publish
// into the receiver's owning side's queue.
func sideFor(dm *DeviceManager, dir Direction) (senderSide, receiverSide *side) {
	if dir == ControlSystemToDevice {
		return dm.peer.side, dm.side
	}
	return dm.side, dm.peer.side
}

// CreateProcessScalar creates a new scalar process variable reachable
// from both managers of dm's pair: its sender lives on the side dir sends
// from, its receiver on the side dir sends to. dm already knows its
// coupled ControlSystemManager, so a single manager argument is enough
// to create both halves of a PV in one call. It returns dm's own local
// endpoint (sender if dir sends from the device, receiver if dir sends
// to it); the control-system side fetches its matching endpoint
// afterward with GetProcessScalar. Go's method sets can't add type
// parameters, so this — like every other typed constructor — is a
// package-level generic function taking the manager as its first
// argument, the pattern store helper functions elsewhere in the
// ecosystem use with a *gorm.DB.
func CreateProcessScalar[T Numeric](dm *DeviceManager, name string, initial T, numBuffers int, dir Direction, opts ...Option[T]) (*Scalar[T], error) {
	settings := applyOptions(opts)
	senderSide, receiverSide := sideFor(dm, dir)

	versionSource := settings.versionNumberSource
	if versionSource == nil {
		versionSource = receiverSide.versionNumberSource
	}
	numberOfBuffers := numBuffers
	if numberOfBuffers < 1 {
		numberOfBuffers = 1
	}

	receiver, err := newScalarReceiver[T](name, initial, numberOfBuffers, versionSource)
	if err != nil {
		return nil, err
	}
	receiver.metrics = receiverSide.metrics

	publishListener := ListenerFunc(func(pv ProcessVariable) {
		receiverSide.notify.Push(pv)
	})
	listener := settings.sendNotificationListener
	if listener != nil {
		outer := listener
		listener = ListenerFunc(func(pv ProcessVariable) {
			outer.Notify(pv)
			publishListener.Notify(pv)
		})
	} else {
		listener = publishListener
	}

	sender, err := newScalarSender[T](receiver, settings.timeStampSource, versionSource, listener)
	if err != nil {
		return nil, err
	}
	sender.metrics = senderSide.metrics

	if err := senderSide.register(name, sender); err != nil {
		return nil, err
	}
	if err := receiverSide.register(name, receiver); err != nil {
		return nil, err
	}
	if dir == ControlSystemToDevice {
		return receiver, nil
	}
	return sender, nil
}

// GetProcessScalar looks up a previously created scalar by name on m,
// verifying its element type matches T.
func GetProcessScalar[T Numeric](m Manager, name string) (*Scalar[T], error) {
	pv, err := m.GetProcessVariable(name)
	if err != nil {
		return nil, err
	}
	scalar, ok := pv.(*Scalar[T])
	if !ok {
		return nil, typeMismatchf(name, valueTypeOf[T](), pv.ValueType())
	}
	return scalar, nil
}

// CreateProcessArray creates a new fixed-length array process variable
// reachable from both managers of dm's pair, returning dm's own local
// endpoint exactly as CreateProcessScalar does. initial fixes the
// array's length for its lifetime.
func CreateProcessArray[T Numeric](dm *DeviceManager, name string, initial []T, numBuffers int, dir Direction, opts ...Option[T]) (*Array[T], error) {
	settings := applyOptions(opts)
	senderSide, receiverSide := sideFor(dm, dir)

	versionSource := settings.versionNumberSource
	if versionSource == nil {
		versionSource = receiverSide.versionNumberSource
	}
	numberOfBuffers := numBuffers
	if numberOfBuffers < 2 {
		numberOfBuffers = 2
	}

	receiver, err := newArrayReceiver[T](name, initial, numberOfBuffers, versionSource)
	if err != nil {
		return nil, err
	}
	receiver.metrics = receiverSide.metrics

	publishListener := ListenerFunc(func(pv ProcessVariable) {
		receiverSide.notify.Push(pv)
	})
	listener := settings.sendNotificationListener
	if listener != nil {
		outer := listener
		listener = ListenerFunc(func(pv ProcessVariable) {
			outer.Notify(pv)
			publishListener.Notify(pv)
		})
	} else {
		listener = publishListener
	}

	sender, err := newArraySender[T](receiver, settings.timeStampSource, versionSource, listener)
	if err != nil {
		return nil, err
	}
	sender.metrics = senderSide.metrics

	if err := senderSide.register(name, sender); err != nil {
		return nil, err
	}
	if err := receiverSide.register(name, receiver); err != nil {
		return nil, err
	}
	if dir == ControlSystemToDevice {
		return receiver, nil
	}
	return sender, nil
}

// GetProcessArray looks up a previously created array by name on m,
// verifying its element type matches T.
func GetProcessArray[T Numeric](m Manager, name string) (*Array[T], error) {
	pv, err := m.GetProcessVariable(name)
	if err != nil {
		return nil, err
	}
	array, ok := pv.(*Array[T])
	if !ok {
		return nil, typeMismatchf(name, valueTypeOf[T](), pv.ValueType())
	}
	return array, nil
}
