package schema

import "strings"

// Tag is a set of column constraint flags.
type Tag uint8

const (
	// Primary marks the column as part of the primary key.
	Primary Tag = 1 << iota
	// Unique makes the column unique on its own.
	Unique
	// NotNull forbids NULL values.
	NotNull
	// AutoIncrement lets the database assign the value.
	AutoIncrement
)

// NoTags is the empty tag set.
const NoTags Tag = 0

var tagNames = []struct {
	tag  Tag
	name string
}{
	{Primary, "PRIMARY"},
	{Unique, "UNIQUE"},
	{NotNull, "NOT_NULL"},
	{AutoIncrement, "AUTO_INCREMENT"},
}

// Has reports whether every flag in f is set.
func (t Tag) Has(f Tag) bool {
	return t&f == f
}

// String returns the flags joined with "|".
func (t Tag) String() string {
	var parts []string
	for _, n := range tagNames {
		if t.Has(n.tag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// ParseTag converts a tag name such as "PRIMARY" or "not null" into a Tag.
func ParseTag(name string) (Tag, bool) {
	norm := strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_").Replace(strings.TrimSpace(name)))
	switch norm {
	case "PRIMARY_KEY", "PK":
		return Primary, true
	case "AUTOINCREMENT":
		return AutoIncrement, true
	}
	for _, n := range tagNames {
		if n.name == norm {
			return n.tag, true
		}
	}
	return NoTags, false
}
