package attribute

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// groupFieldPrefix names the packed bitmask fields backing point groups.
// The prefix is reserved; user fields may not use it.
const groupFieldPrefix = "__group"

var (
	// ErrReservedName is returned when a user field uses the reserved group prefix.
	ErrReservedName = errors.New("attribute: field name uses reserved prefix")
	// ErrDuplicateName is returned when a field or group name appears twice.
	ErrDuplicateName = errors.New("attribute: duplicate name")
	// ErrUnknownGroup is returned when a group name is not present in the descriptor.
	ErrUnknownGroup = errors.New("attribute: unknown group")
)

// Field describes one attribute array in a Set.
type Field struct {
	Name  string
	Type  Type
	Width int
}

// Descriptor is the shared schema of an attribute Set: the ordered field list
// plus the mapping from group names to bits within the packed group fields.
//
// A Descriptor is shared by every leaf of a tree. Group lookups are safe for
// concurrent use; DropGroups must not run concurrently with leaf compaction.
type Descriptor struct {
	mu     sync.RWMutex
	fields []Field
	groups map[string]uint16 // name -> bit offset into the group fields
}

func groupFieldName(n int) string {
	return fmt.Sprintf("%s%d", groupFieldPrefix, n)
}

func validateFields(fields []Field, allowGroupFields bool) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return errors.New("attribute: empty field name")
		}
		if !allowGroupFields && strings.HasPrefix(f.Name, groupFieldPrefix) {
			return fmt.Errorf("%w: %q", ErrReservedName, f.Name)
		}
		if !f.Type.Valid() {
			return fmt.Errorf("attribute: field %q has unknown type", f.Name)
		}
		if f.Type != TypeFloat32 && f.Width != 1 {
			return fmt.Errorf("attribute: field %q: width %d unsupported for type %s", f.Name, f.Width, f.Type)
		}
		if f.Width < 1 {
			return fmt.Errorf("attribute: field %q has width %d", f.Name, f.Width)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("%w: field %q", ErrDuplicateName, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// NewDescriptor creates a descriptor from the given user fields and group
// names. Group bits are assigned in argument order; one packed group field is
// appended for every GroupsPerArray groups (or fraction thereof).
func NewDescriptor(fields []Field, groups ...string) (*Descriptor, error) {
	if err := validateFields(fields, false); err != nil {
		return nil, err
	}

	d := &Descriptor{
		fields: append([]Field(nil), fields...),
		groups: make(map[string]uint16, len(groups)),
	}

	for i, name := range groups {
		if name == "" {
			return nil, errors.New("attribute: empty group name")
		}
		if _, ok := d.groups[name]; ok {
			return nil, fmt.Errorf("%w: group %q", ErrDuplicateName, name)
		}
		d.groups[name] = uint16(i)
	}

	numGroupFields := (len(groups) + GroupsPerArray - 1) / GroupsPerArray
	for n := 0; n < numGroupFields; n++ {
		d.fields = append(d.fields, Field{Name: groupFieldName(n), Type: TypeGroup, Width: 1})
	}

	return d, nil
}

// RestoreDescriptor rebuilds a descriptor from a previously serialized field
// list (including group fields) and group offset map. Used when loading
// snapshots, where group offsets may be sparse after earlier drops.
func RestoreDescriptor(fields []Field, groups map[string]uint16) (*Descriptor, error) {
	if err := validateFields(fields, true); err != nil {
		return nil, err
	}

	d := &Descriptor{
		fields: append([]Field(nil), fields...),
		groups: make(map[string]uint16, len(groups)),
	}

	for name, offset := range groups {
		if name == "" {
			return nil, errors.New("attribute: empty group name")
		}
		if _, _, ok := d.groupLocation(offset); !ok {
			return nil, fmt.Errorf("attribute: group %q references missing group field (offset %d)", name, offset)
		}
		d.groups[name] = offset
	}

	return d, nil
}

// Fields returns a copy of the ordered field list, group fields included.
func (d *Descriptor) Fields() []Field {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Field(nil), d.fields...)
}

// FieldCount returns the number of fields, group fields included.
func (d *Descriptor) FieldCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.fields)
}

// FieldIndex returns the position of the named field.
func (d *Descriptor) FieldIndex(name string) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fieldIndexLocked(name)
}

func (d *Descriptor) fieldIndexLocked(name string) (int, bool) {
	for i, f := range d.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

// HasGroup reports whether the named group exists.
func (d *Descriptor) HasGroup(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.groups[name]
	return ok
}

// GroupOffset returns the bit offset of the named group.
func (d *Descriptor) GroupOffset(name string) (uint16, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	offset, ok := d.groups[name]
	return offset, ok
}

// GroupNames returns the group names in sorted order.
func (d *Descriptor) GroupNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.groups))
	for name := range d.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GroupOffsets returns a copy of the group name to bit offset mapping.
func (d *Descriptor) GroupOffsets() map[string]uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m := make(map[string]uint16, len(d.groups))
	for name, offset := range d.groups {
		m[name] = offset
	}
	return m
}

// Intersect returns the subset of the requested names that exist as groups,
// preserving request order and dropping duplicates.
func (d *Descriptor) Intersect(names []string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var available []string
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := d.groups[name]; ok {
			available = append(available, name)
		}
	}
	return available
}

// DropGroups removes the named groups from the descriptor. Unknown names are
// ignored. The backing group fields are retained; dropped bits become
// reusable. Must not be called while leaves are being compacted.
func (d *Descriptor) DropGroups(names ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range names {
		delete(d.groups, name)
	}
}

// GroupLocation returns the backing field index and element bitmask for the
// named group.
func (d *Descriptor) GroupLocation(name string) (fieldIndex int, mask uint8, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	offset, ok := d.groups[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	fieldIndex, mask, ok = d.groupLocation(offset)
	if !ok {
		return 0, 0, fmt.Errorf("attribute: group %q references missing group field", name)
	}
	return fieldIndex, mask, nil
}

// groupLocation maps a bit offset to the index of its backing group field and
// the bitmask within that field's elements.
func (d *Descriptor) groupLocation(offset uint16) (fieldIndex int, mask uint8, ok bool) {
	name := groupFieldName(int(offset) / GroupsPerArray)
	idx, ok := d.fieldIndexLocked(name)
	if !ok {
		return 0, 0, false
	}
	return idx, uint8(1) << (offset % GroupsPerArray), true
}
