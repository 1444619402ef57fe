package schema

import "fmt"

// A Type represents a field's kind after dialect-specific column types have
// been folded into a common vocabulary.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeString
	TypeInt
	TypeBigInt
	TypeFloat
	TypeBool
	TypeTime
	TypeDate
	TypeUUID
	TypeJSON
	TypeBytes
	TypeEnum
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeString:  "string",
	TypeInt:     "int",
	TypeBigInt:  "bigint",
	TypeFloat:   "float",
	TypeBool:    "bool",
	TypeTime:    "time",
	TypeDate:    "date",
	TypeUUID:    "uuid",
	TypeJSON:    "json",
	TypeBytes:   "bytes",
	TypeEnum:    "enum",
}

// String returns the lowercase name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", t)
}

// MarshalText implements encoding.TextMarshaler, so JSON carries the type
// name instead of its numeric value.
func (t Type) MarshalText() ([]byte, error) {
	if t >= endTypes {
		return nil, fmt.Errorf("typeweave: unknown field type %d", uint8(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range typeNames {
		if n == name {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("typeweave: unknown field type %q", name)
}

// Valid reports whether t is a declared type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports whether the type is a numeric kind.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeBigInt || t == TypeFloat
}

// Temporal reports whether the type carries date or time information.
func (t Type) Temporal() bool {
	return t == TypeTime || t == TypeDate
}
