package typescript

import (
	"fmt"
	"strings"

	"github.com/typeweave/typeweave/schema"
)

// scalarType maps a field's folded type to the TypeScript type of the value
// the driver hands back at runtime. Bigint columns map to string: both pg and
// mysql2 return 64-bit integers as strings to avoid precision loss.
func scalarType(f *schema.Field) string {
	switch f.Type {
	case schema.TypeString, schema.TypeUUID, schema.TypeBigInt:
		return "string"
	case schema.TypeInt, schema.TypeFloat:
		return "number"
	case schema.TypeBool:
		return "boolean"
	case schema.TypeTime, schema.TypeDate:
		return "Date"
	case schema.TypeBytes:
		return "Uint8Array"
	case schema.TypeEnum:
		return schema.Pascal(f.Enum)
	default:
		return "unknown"
	}
}

// fieldType renders the full property type for a row field, folding the
// array and nullable markers in.
func fieldType(f *schema.Field) string {
	t := scalarType(f)
	if f.Array {
		if strings.ContainsAny(t, " |") {
			t = "(" + t + ")"
		}
		t += "[]"
	}
	if f.Nullable {
		t += " | null"
	}
	return t
}

// zodScalar renders the zod validator matching scalarType for the same
// field, so a schema built from it satisfies z.ZodType over the row
// interface.
func zodScalar(m *schema.Model, f *schema.Field) string {
	switch f.Type {
	case schema.TypeString:
		if f.MaxLen > 0 {
			return fmt.Sprintf("z.string().max(%d)", f.MaxLen)
		}
		return "z.string()"
	case schema.TypeUUID:
		return "z.string().uuid()"
	case schema.TypeBigInt:
		return "z.string().regex(/^-?\\d+$/)"
	case schema.TypeInt:
		return "z.number().int()"
	case schema.TypeFloat:
		return "z.number()"
	case schema.TypeBool:
		return "z.boolean()"
	case schema.TypeTime, schema.TypeDate:
		return "z.coerce.date()"
	case schema.TypeBytes:
		return "z.instanceof(Uint8Array)"
	case schema.TypeEnum:
		if e, ok := m.Enum(f.Enum); ok {
			members := make([]string, len(e.Values))
			for i, v := range e.Values {
				members[i] = Quote(v)
			}
			return "z.enum([" + strings.Join(members, ", ") + "])"
		}
		return "z.string()"
	default:
		return "z.unknown()"
	}
}

// zodType renders the complete zod validator for a row field.
func zodType(m *schema.Model, f *schema.Field) string {
	t := zodScalar(m, f)
	if f.Array {
		t += ".array()"
	}
	if f.Nullable {
		t += ".nullable()"
	}
	return t
}

// insertZodType renders the validator for an insert payload field: columns
// the database can fill on its own become optional.
func insertZodType(m *schema.Model, f *schema.Field) string {
	t := zodType(m, f)
	if f.HasDefault || f.Nullable {
		t += ".optional()"
	}
	return t
}
