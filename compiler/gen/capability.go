package gen

import (
	"fmt"
	"strings"
)

// capSep separates the segments of a capability key.
const capSep = ":"

// A Capability is a hierarchical, colon-delimited key identifying a kind of
// output a plugin provides or consumes (e.g. "schema:validator:User:insert").
// Capabilities are immutable identifiers; coarse keys are satisfied by any
// finer key sharing the prefix.
type Capability string

// Split returns the capability's segments.
func (c Capability) Split() []string {
	if c == "" {
		return nil
	}
	return strings.Split(string(c), capSep)
}

// Parent returns the capability with its last segment removed, or "" for a
// single-segment capability.
func (c Capability) Parent() Capability {
	i := strings.LastIndex(string(c), capSep)
	if i < 0 {
		return ""
	}
	return c[:i]
}

// Expand returns the capability followed by every prefix of it, finest
// first: "a:b:c" expands to ["a:b:c", "a:b", "a"]. Providing a capability
// implicitly provides all of its prefixes, which is what lets consumers
// depend on coarse-grained provision.
func (c Capability) Expand() []Capability {
	if c == "" {
		return nil
	}
	out := []Capability{c}
	for p := c.Parent(); p != ""; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// HasPrefix reports whether prefix is c itself or a segment-wise prefix of
// it; "a:bc" is not a prefix of "a:bcd".
func (c Capability) HasPrefix(prefix Capability) bool {
	if c == prefix {
		return true
	}
	return strings.HasPrefix(string(c), string(prefix)+capSep)
}

// Validate reports whether the capability is well formed: non-empty, with no
// empty segments and no surrounding whitespace.
func (c Capability) Validate() error {
	if c == "" {
		return fmt.Errorf("empty capability")
	}
	for _, seg := range c.Split() {
		if seg == "" {
			return fmt.Errorf("capability %q has an empty segment", c)
		}
		if strings.TrimSpace(seg) != seg {
			return fmt.Errorf("capability %q has whitespace in segment %q", c, seg)
		}
	}
	return nil
}
