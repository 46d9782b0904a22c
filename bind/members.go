package bind

import (
	"reflect"
	"sort"
	"sync"
)

// Member is one bindable field of a record type.
type Member struct {
	Name  string
	Index []int
	Type  reflect.Type
}

// Members lists the bindable fields of a struct type, sorted by name.
type Members []Member

var memberCache sync.Map // reflect.Type -> Members

// MembersOf returns the member table of struct type t. Exported fields are
// members, named by their `notation` tag or their field name; a tag of "-"
// hides the field. Fields of embedded structs are promoted unless an outer
// field has the same name.
func MembersOf(t reflect.Type) Members {
	if m, ok := memberCache.Load(t); ok {
		return m.(Members)
	}
	byName := make(map[string]Member)
	collectMembers(t, nil, byName)
	members := make(Members, 0, len(byName))
	for _, m := range byName {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	m, _ := memberCache.LoadOrStore(t, members)
	return m.(Members)
}

func collectMembers(t reflect.Type, index []int, byName map[string]Member) {
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, hasTag := f.Tag.Lookup("notation")
		if tag == "-" {
			continue
		}
		if f.Anonymous && !hasTag && f.Type.Kind() == reflect.Struct {
			embedded = append(embedded, f)
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag != "" {
			name = tag
		}
		if _, taken := byName[name]; taken {
			continue
		}
		byName[name] = Member{
			Name:  name,
			Index: append(append([]int(nil), index...), i),
			Type:  f.Type,
		}
	}
	for _, f := range embedded {
		collectMembers(f.Type, append(append([]int(nil), index...), f.Index...), byName)
	}
}

// Find returns the member called name. A name with a leading or trailing
// "*" is matched as a wildcard against the member names in order. Matching
// is case sensitive.
func (m Members) Find(name string) (Member, bool) {
	i := sort.Search(len(m), func(i int) bool { return m[i].Name >= name })
	if i < len(m) && m[i].Name == name {
		return m[i], true
	}
	if isWildcard(name) {
		if i := FindWildcard(m.Names(), name); i >= 0 {
			return m[i], true
		}
	}
	return Member{}, false
}

// Names returns the member names in order.
func (m Members) Names() []string {
	names := make([]string, len(m))
	for i, x := range m {
		names[i] = x.Name
	}
	return names
}
