// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package manifest is the in-memory model of the declarative repo set: the
// `.gitrepos` file. It owns loading, label/ignore filtering, canonical
// serialization, and eager validation of the invariants every other engine
// package assumes already hold.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/archmagece/gitmgr/internal/engineerr"
)

// Pin is the exact thing a repo should be driven to. At most one field is
// set; the zero value means "follow the manifest's default branch".
type Pin struct {
	Commit string
	Tag    string
	Branch string
}

// Kind classifies which field of Pin (if any) is set.
type Kind int

const (
	KindNone Kind = iota
	KindCommit
	KindTag
	KindBranch
)

// Kind reports which pin variant is populated.
func (p Pin) Kind() Kind {
	switch {
	case p.Commit != "":
		return KindCommit
	case p.Tag != "":
		return KindTag
	case p.Branch != "":
		return KindBranch
	default:
		return KindNone
	}
}

// LabelArchived is the reserved label (expansion) that marks an entry
// clean must never treat as an orphan, even when it falls out of the
// active --labels/--ignore filter. See pkg/repoop.FindOrphans.
const LabelArchived = "archived"

// RepoEntry is one declared working tree.
type RepoEntry struct {
	// Local is the relative path from the manifest root. Empty string and
	// "." are aliases for "the manifest root is itself a repo".
	Local string

	// Remote is the clone URL, optional.
	Remote string

	Pin Pin

	// Sparse, when non-empty, enables no-cone sparse-checkout restricted to
	// these path prefixes.
	Sparse []string

	// Labels are free-form tags used for filtering. The reserved value
	// LabelArchived (expansion) marks an entry clean should never treat as
	// an orphan even if it's excluded by the active filter.
	Labels []string
}

// HasLabel reports whether the entry carries the given label.
func (r RepoEntry) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Manifest is the root of the declarative model.
type Manifest struct {
	Version       string
	DefaultBranch string
	DefaultRemote string
	Repos         []RepoEntry
}

// IndexedEntry pairs a RepoEntry with its position in Manifest.Repos, the
// identity the Scheduler uses to route progress and, later, to apply a
// mutation buffer back onto the right slot.
type IndexedEntry struct {
	Index int
	Entry RepoEntry
}

// rawManifest and rawRepo mirror the on-disk TOML shape for decoding with
// BurntSushi/toml; Manifest itself stays a clean domain type.
type rawManifest struct {
	Version       string   `toml:"version"`
	DefaultBranch string   `toml:"default-branch"`
	DefaultRemote string   `toml:"default-remote"`
	Repos         []rawRepo `toml:"repos"`
}

type rawRepo struct {
	Local   string   `toml:"local"`
	Remote  string   `toml:"remote"`
	Branch  string   `toml:"branch"`
	Tag     string   `toml:"tag"`
	Commit  string   `toml:"commit"`
	Sparse  []string `toml:"sparse"`
	Labels  []string `toml:"labels"`
}

// Load reads and parses a manifest file at path. Per spec.md §4.2/§9, it
// first performs one defensive substitution: a local value serialized as
// the literal "." is treated as "" (the canonical in-memory representation
// of "the root itself"). This is a compatibility shim for manifests written
// by a predecessor tool; it is idempotent, since Serialize always writes ""
// back out as "." — so round-tripping never shifts which entries alias the
// root.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawManifest
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, engineerr.Wrap(engineerr.ParseConfigFailed, "", err)
	}

	m := &Manifest{
		Version:       raw.Version,
		DefaultBranch: raw.DefaultBranch,
		DefaultRemote: raw.DefaultRemote,
		Repos:         make([]RepoEntry, 0, len(raw.Repos)),
	}

	for _, r := range raw.Repos {
		local := r.Local
		if local == "." {
			local = ""
		}
		m.Repos = append(m.Repos, RepoEntry{
			Local:  local,
			Remote: r.Remote,
			Pin:    Pin{Commit: r.Commit, Tag: r.Tag, Branch: r.Branch},
			Sparse: r.Sparse,
			Labels: r.Labels,
		})
	}

	SortEntries(m.Repos)

	return m, nil
}

// SortEntries sorts repos by lower-cased Local, stably, matching invariant 3
// ("After load, entries are sorted by local.lower() ... stable output
// across platforms").
func SortEntries(repos []RepoEntry) {
	sort.SliceStable(repos, func(i, j int) bool {
		return strings.ToLower(repos[i].Local) < strings.ToLower(repos[j].Local)
	})
}

// Validate checks invariants 1 and 2 eagerly, before any RepoOp is
// scheduled (load-time checks rather than deferred per-operation checks).
func Validate(m *Manifest) error {
	seen := make(map[string]int, len(m.Repos))

	for i, r := range m.Repos {
		key := strings.ToLower(r.Local)
		if prev, ok := seen[key]; ok {
			return engineerr.New(engineerr.InvalidRepoConfig,
				fmt.Sprintf("duplicate local path %q (entries %d and %d)", r.Local, prev, i))
		}
		seen[key] = i

		set := 0
		if r.Pin.Commit != "" {
			set++
		}
		if r.Pin.Tag != "" {
			set++
		}
		if r.Pin.Branch != "" {
			set++
		}
		if set > 1 {
			return engineerr.New(engineerr.InvalidRepoConfig,
				fmt.Sprintf("entry %q: at most one of commit/tag/branch may be set", r.Local))
		}
	}

	return nil
}

// Filter implements spec.md §4.2's rule exactly:
//   - an entry survives iff its Local is not in ignore (with "." as an
//     alias for the root entry) AND (labels is empty OR the entry's labels
//     intersect labels OR the entry has no labels at all)
//   - labels == ["none"] is a sentinel that excludes every labelled entry.
func Filter(repos []RepoEntry, ignore []string, labels []string) []IndexedEntry {
	ignoreSet := make(map[string]struct{}, len(ignore))
	for _, p := range ignore {
		ignoreSet[p] = struct{}{}
		if p == "." {
			ignoreSet[""] = struct{}{}
		}
	}

	excludeAll := len(labels) == 1 && labels[0] == "none"

	labelSet := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		labelSet[l] = struct{}{}
	}

	out := make([]IndexedEntry, 0, len(repos))
	for i, r := range repos {
		if _, skip := ignoreSet[r.Local]; skip {
			continue
		}

		if excludeAll {
			if len(r.Labels) > 0 {
				continue
			}
		} else if len(labels) > 0 {
			if len(r.Labels) > 0 && !intersects(r.Labels, labelSet) {
				continue
			}
		}

		out = append(out, IndexedEntry{Index: i, Entry: r})
	}

	return out
}

func intersects(have []string, want map[string]struct{}) bool {
	for _, l := range have {
		if _, ok := want[l]; ok {
			return true
		}
	}
	return false
}

// PinUpdate is the mutation-buffer entry spec.md §9's design note prescribes:
// the Scheduler never mutates the Manifest concurrently; instead it (or its
// caller) accumulates PinUpdates from successful RepoOps and a single
// caller-thread pass applies them after the batch completes.
type PinUpdate struct {
	Index  int
	NewPin Pin
}

// Apply rewrites the pins named by updates onto m.Repos, in place.
func Apply(m *Manifest, updates []PinUpdate) {
	for _, u := range updates {
		if u.Index >= 0 && u.Index < len(m.Repos) {
			m.Repos[u.Index].Pin = u.NewPin
		}
	}
}

// Serialize produces the canonical text format from spec.md §6: two
// generated-file comment lines, scalar keys in fixed order (only those
// present), a blank line, then one [[repos]] block per entry with keys in
// fixed order (only those present). This is hand-built rather than run
// through toml.Encoder because the format requires comments and an exact
// key order that a generic struct encoder won't reproduce faithfully.
func Serialize(m *Manifest) string {
	var b strings.Builder

	b.WriteString("# This file is automatically @generated by gitmgr.\n")
	b.WriteString("# Editing it as you wish.\n")

	wroteScalar := false
	if m.Version != "" {
		fmt.Fprintf(&b, "version = %s\n", quote(m.Version))
		wroteScalar = true
	}
	if m.DefaultBranch != "" {
		fmt.Fprintf(&b, "default-branch = %s\n", quote(m.DefaultBranch))
		wroteScalar = true
	}
	if m.DefaultRemote != "" {
		fmt.Fprintf(&b, "default-remote = %s\n", quote(m.DefaultRemote))
		wroteScalar = true
	}
	if wroteScalar {
		b.WriteString("\n")
	}

	for i, r := range m.Repos {
		b.WriteString("[[repos]]\n")

		local := r.Local
		if local == "" {
			local = "."
		}
		fmt.Fprintf(&b, "local = %s\n", quote(local))

		if r.Remote != "" {
			fmt.Fprintf(&b, "remote = %s\n", quote(r.Remote))
		}
		switch r.Pin.Kind() {
		case KindBranch:
			fmt.Fprintf(&b, "branch = %s\n", quote(r.Pin.Branch))
		case KindTag:
			fmt.Fprintf(&b, "tag = %s\n", quote(r.Pin.Tag))
		case KindCommit:
			fmt.Fprintf(&b, "commit = %s\n", quote(r.Pin.Commit))
		}
		if len(r.Sparse) > 0 {
			fmt.Fprintf(&b, "sparse = %s\n", quoteList(r.Sparse))
		}
		if len(r.Labels) > 0 {
			fmt.Fprintf(&b, "labels = %s\n", quoteList(r.Labels))
		}

		if i < len(m.Repos)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = quote(it)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
