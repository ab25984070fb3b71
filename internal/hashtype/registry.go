package hashtype

import (
	"regexp"
	"strings"
	"sync"
)

// Entry is a Definition bound into a Registry together with its compiled
// pattern and ambiguity-family membership.
type Entry struct {
	Definition

	regex      *regexp.Regexp
	patternErr error
	shared     bool
}

// Matches reports whether input satisfies the entry's pattern. Entries whose
// pattern failed to compile never match.
func (e Entry) Matches(input string) bool {
	if e.regex == nil {
		return false
	}
	return e.regex.MatchString(input)
}

// Shared reports whether at least one other entry in the same registry
// carries byte-identical pattern text.
func (e Entry) Shared() bool {
	return e.shared
}

// PatternErr returns the compile error for the entry's pattern, or nil when
// the pattern compiled cleanly.
func (e Entry) PatternErr() error {
	return e.patternErr
}

// Registry is an immutable ordered catalog of hash format definitions.
// Catalog order doubles as the stable tie-break for equally confident
// candidates, so construction preserves the order definitions arrive in.
type Registry struct {
	entries []Entry
}

// NewRegistry compiles definitions into a Registry. A pattern that fails to
// compile keeps its entry in the catalog but marks it so the entry never
// matches; callers that need compilation to be fatal inspect PatternErr.
func NewRegistry(definitions []Definition) *Registry {
	entries := make([]Entry, len(definitions))
	patternCounts := make(map[string]int, len(definitions))
	for _, definition := range definitions {
		patternCounts[definition.Pattern]++
	}
	for i, definition := range definitions {
		entry := Entry{Definition: definition, shared: patternCounts[definition.Pattern] > 1}
		entry.regex, entry.patternErr = regexp.Compile(definition.Pattern)
		if entry.patternErr != nil {
			entry.regex = nil
		}
		entries[i] = entry
	}
	return &Registry{entries: entries}
}

// Entries returns the catalog in registry order. The returned slice is a
// copy; mutating it does not affect the registry.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Len returns the number of catalog entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Find looks up an entry by name, case-insensitively.
func (r *Registry) Find(name string) (Entry, bool) {
	for _, entry := range r.entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return Entry{}, false
}

// FamilySize returns how many entries carry the given pattern text.
func (r *Registry) FamilySize(pattern string) int {
	count := 0
	for _, entry := range r.entries {
		if entry.Pattern == pattern {
			count++
		}
	}
	return count
}

var (
	builtinOnce     sync.Once
	builtinRegistry *Registry
)

// Builtin returns the registry of built-in definitions. The registry is
// constructed once and shared; it is safe for concurrent use.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtinRegistry = NewRegistry(BuiltinDefinitions())
	})
	return builtinRegistry
}
