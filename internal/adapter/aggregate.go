package adapter

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"quill/internal/fsutil"
)

// SectionKey identifies one skill section inside an aggregate document.
type SectionKey struct {
	Module string
	Skill  string
}

func (k SectionKey) startMarker() string {
	return fmt.Sprintf("%sskill %s/%s -->", fsutil.ManagedMarkerPrefix, k.Module, k.Skill)
}

func (k SectionKey) endMarker() string {
	return fmt.Sprintf("<!-- /quill:skill %s/%s -->", k.Module, k.Skill)
}

var sectionStartRe = regexp.MustCompile(`(?m)^<!-- quill:skill ([^\s/]+)/(\S+) -->`)

type segment struct {
	key *SectionKey
	// lead is a line break a section needed to start on its own line; it
	// leaves with the section.
	lead string
	text string
}

// AggregateDoc is a free-form document holding quill-managed skill
// sections. Text outside the sections is kept byte for byte.
type AggregateDoc struct {
	path     string
	segments []segment
}

// LoadAggregate reads the document at path. A missing file is an empty document.
func LoadAggregate(path string) (*AggregateDoc, error) {
	doc := &AggregateDoc{path: path}
	blob, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("ADP_AGGREGATE_READ: %w", err)
	}
	doc.segments = parseSegments(string(blob))
	return doc, nil
}

func parseSegments(text string) []segment {
	var out []segment
	pos := 0
	for pos < len(text) {
		loc := sectionStartRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		key := SectionKey{Module: text[pos+loc[2] : pos+loc[3]], Skill: text[pos+loc[4] : pos+loc[5]]}
		headerEnd := pos + loc[1]
		rel := strings.Index(text[headerEnd:], key.endMarker())
		if rel < 0 {
			// Unterminated sections are left alone as plain text.
			break
		}
		stop := headerEnd + rel + len(key.endMarker())
		if strings.HasPrefix(text[stop:], "\r\n") {
			stop += 2
		} else if strings.HasPrefix(text[stop:], "\n") {
			stop++
		}
		if start > pos {
			out = append(out, segment{text: text[pos:start]})
		}
		k := key
		out = append(out, segment{key: &k, text: text[start:stop]})
		pos = stop
	}
	if pos < len(text) {
		out = append(out, segment{text: text[pos:]})
	}
	return out
}

func renderSection(key SectionKey, body string) string {
	var b strings.Builder
	b.WriteString(key.startMarker())
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n")
	b.WriteString(key.endMarker())
	b.WriteString("\n")
	return b.String()
}

// Upsert replaces the section for (module, skill) in place, or appends it.
func (d *AggregateDoc) Upsert(module, skill, body string) {
	key := SectionKey{Module: module, Skill: skill}
	rendered := renderSection(key, body)
	for i := range d.segments {
		if d.segments[i].key != nil && *d.segments[i].key == key {
			d.segments[i].text = rendered
			return
		}
	}
	lead := ""
	if text := d.String(); text != "" && !strings.HasSuffix(text, "\n") {
		lead = "\n"
	}
	d.segments = append(d.segments, segment{key: &key, lead: lead, text: rendered})
}

// Remove drops the named skill sections of module and returns how many were dropped.
func (d *AggregateDoc) Remove(module string, skills ...string) int {
	drop := map[string]struct{}{}
	for _, s := range skills {
		drop[s] = struct{}{}
	}
	return d.filter(func(k SectionKey) bool {
		_, ok := drop[k.Skill]
		return k.Module == module && ok
	})
}

// RemoveModule drops every section belonging to module.
func (d *AggregateDoc) RemoveModule(module string) int {
	return d.filter(func(k SectionKey) bool { return k.Module == module })
}

func (d *AggregateDoc) filter(drop func(SectionKey) bool) int {
	kept := d.segments[:0]
	n := 0
	for _, seg := range d.segments {
		if seg.key != nil && drop(*seg.key) {
			n++
			continue
		}
		kept = append(kept, seg)
	}
	d.segments = kept
	return n
}

func (d *AggregateDoc) String() string {
	var b strings.Builder
	for _, seg := range d.segments {
		b.WriteString(seg.lead)
		b.WriteString(seg.text)
	}
	return b.String()
}

// Save writes the document, or deletes it when nothing but whitespace remains.
func (d *AggregateDoc) Save() error {
	text := d.String()
	if strings.TrimSpace(text) == "" {
		if err := fsutil.RemoveAll(d.path); err != nil {
			return fmt.Errorf("ADP_AGGREGATE_WRITE: %w", err)
		}
		return nil
	}
	if err := fsutil.WriteFile(d.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("ADP_AGGREGATE_WRITE: %w", err)
	}
	return nil
}

// hasManagedSections avoids parsing documents quill never wrote to.
func hasManagedSections(path string) bool {
	blob, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return fsutil.IsManagedFile(blob)
}
