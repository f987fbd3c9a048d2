package pvadapter

// Numeric is the set of primitive element types a process variable may
// carry: signed/unsigned 8/16/32-bit integers and 32/64-bit IEEE floats.
// Notably absent are 64-bit integers — no caller instantiates them.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// ValueType is the runtime type tag a type-erased ProcessVariable
// exposes so a manager's typed lookup can verify the element type
// before downcasting.
type ValueType int

const (
	ValueTypeUnknown ValueType = iota
	ValueTypeInt8
	ValueTypeUint8
	ValueTypeInt16
	ValueTypeUint16
	ValueTypeInt32
	ValueTypeUint32
	ValueTypeFloat32
	ValueTypeFloat64
)

func (vt ValueType) String() string {
	switch vt {
	case ValueTypeInt8:
		return "int8"
	case ValueTypeUint8:
		return "uint8"
	case ValueTypeInt16:
		return "int16"
	case ValueTypeUint16:
		return "uint16"
	case ValueTypeInt32:
		return "int32"
	case ValueTypeUint32:
		return "uint32"
	case ValueTypeFloat32:
		return "float32"
	case ValueTypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// valueTypeOf returns the ValueType tag for T. Every branch returns;
// there is no fallthrough path.
func valueTypeOf[T Numeric]() ValueType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return ValueTypeInt8
	case uint8:
		return ValueTypeUint8
	case int16:
		return ValueTypeInt16
	case uint16:
		return ValueTypeUint16
	case int32:
		return ValueTypeInt32
	case uint32:
		return ValueTypeUint32
	case float32:
		return ValueTypeFloat32
	case float64:
		return ValueTypeFloat64
	default:
		return ValueTypeUnknown
	}
}
