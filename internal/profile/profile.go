package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"media-converter/internal/mediatypes"
)

// ErrUnknownFormat is returned by Lookup for formats with no profile.
var ErrUnknownFormat = errors.New("profile: unknown output format")

// Arg is a single engine argument: a flag token and an optional value.
// Flags with no value (e.g. "-vn") leave Value empty.
type Arg struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Profile describes how to drive the engine toward one target format. The
// argument list is an ordered, opaque token sequence; nothing in the
// conversion pipeline interprets it beyond passing it to the engine.
type Profile struct {
	Format    string              `json:"format"`
	Extension string              `json:"extension"`
	MIME      string              `json:"mime"`
	Kind      mediatypes.MediaKind `json:"kind"`
	Aliases   []string            `json:"aliases,omitempty"`
	Args      []Arg               `json:"-"`
}

// Flatten returns the raw engine token list in profile order. Pure function;
// the result is a fresh slice on every call.
func (p Profile) Flatten() []string {
	out := make([]string, 0, len(p.Args)*2)
	for _, a := range p.Args {
		out = append(out, a.Key)
		if a.Value != "" {
			out = append(out, a.Value)
		}
	}
	return out
}

// Registry maps output format names to profiles. Lookups are case
// insensitive and honor aliases.
type Registry struct {
	byName map[string]Profile
	names  []string
}

// NewRegistry builds a Registry from the given profiles. Alias collisions
// with canonical names are a programming error and panic at construction.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{byName: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		key := strings.ToLower(p.Format)
		if _, dup := r.byName[key]; dup {
			panic(fmt.Sprintf("profile: duplicate format %q", p.Format))
		}
		r.byName[key] = p
		r.names = append(r.names, key)
		for _, alias := range p.Aliases {
			aliasKey := strings.ToLower(alias)
			if _, dup := r.byName[aliasKey]; dup {
				panic(fmt.Sprintf("profile: duplicate alias %q", alias))
			}
			r.byName[aliasKey] = p
		}
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the profile for the given format name (case insensitive,
// aliases included), or ErrUnknownFormat.
func (r *Registry) Lookup(format string) (Profile, error) {
	p, ok := r.byName[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return p, nil
}

// Names returns the canonical format names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Profiles returns every canonical profile sorted by format name.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

// newProfile fills in the extension, MIME type, and kind derived from the
// format name so catalog entries only spell out what varies.
func newProfile(format string, aliases []string, args ...Arg) Profile {
	ext := "." + format
	return Profile{
		Format:    format,
		Extension: ext,
		MIME:      mediatypes.GetMimeType(ext),
		Kind:      mediatypes.GetMediaKind(ext),
		Aliases:   aliases,
		Args:      args,
	}
}
