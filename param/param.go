package param

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Kind is the closed set of parameter kinds a statement can bind.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Mode is the bind mode selected for a value. Both modes accept NULL.
type Mode string

const (
	ModeNumeric Mode = "i" // numeric-or-null
	ModeString  Mode = "s" // string-or-null
)

// Value is a single typed parameter. The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Int returns an integer parameter.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float returns a floating-point parameter.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a string parameter.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bool returns a boolean parameter.
func Bool(v bool) Value { return Value{kind: KindBoolean, b: v} }

// Null returns a NULL parameter.
func Null() Value { return Value{} }

// Infer classifies a dynamically typed value. Integers and floats of any
// width are numeric, nil is NULL, everything else is bound as text.
// Unsigned values that do not fit an int64 are bound as decimal text.
func Infer(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return unsigned(uint64(val))
	case uint8:
		return Int(int64(val))
	case uint16:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		return unsigned(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	case time.Time:
		return Text(val.Format(time.RFC3339Nano))
	case uuid.UUID:
		return Text(val.String())
	case ulid.ULID:
		return Text(val.String())
	case *int64:
		if val == nil {
			return Null()
		}
		return Int(*val)
	case *float64:
		if val == nil {
			return Null()
		}
		return Float(*val)
	case *string:
		if val == nil {
			return Null()
		}
		return Text(*val)
	case fmt.Stringer:
		return Text(val.String())
	default:
		return Text(fmt.Sprint(val))
	}
}

// unsigned keeps values above math.MaxInt64 exact by binding them as text.
func unsigned(v uint64) Value {
	if v > math.MaxInt64 {
		return Text(strconv.FormatUint(v, 10))
	}
	return Int(int64(v))
}

// Kind reports the parameter kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Mode returns the bind mode for the value.
func (v Value) Mode() Mode {
	switch v.kind {
	case KindInteger, KindFloat:
		return ModeNumeric
	default:
		return ModeString
	}
}

// Driver returns the value in a form accepted by database/sql drivers.
func (v Value) Driver() driver.Value {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBoolean:
		return v.b
	default:
		return nil
	}
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	return v.Driver(), nil
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return "NULL"
	}
}
