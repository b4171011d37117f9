package attachments

import (
	"regexp"
	"sort"
	"strings"
)

// Merge resolves every slot to its newly uploaded URL when present, otherwise
// to the URL already stored. The result must cover every required slot.
func Merge(slots []Slot, uploaded, existing map[string]string) (map[string]string, error) {
	known := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		known[s.Name] = struct{}{}
	}
	var unknown []string
	for name := range uploaded {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &SlotError{Kind: ErrUnknownSlot, Slots: unknown}
	}

	merged := make(map[string]string, len(slots))
	var missing []string
	for _, s := range slots {
		url := uploaded[s.Name]
		if url == "" {
			url = existing[s.Name]
		}
		if url != "" {
			merged[s.Name] = url
		} else if !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &SlotError{Kind: ErrIncomplete, Slots: missing}
	}
	return merged, nil
}

// MergeText keeps the previous value unless a non-blank one is supplied.
func MergeText(newValue, oldValue string) string {
	if v := strings.TrimSpace(newValue); v != "" {
		return v
	}
	return oldValue
}

// MergeFields applies MergeText to each named field.
func MergeFields(names []string, incoming, existing map[string]string) map[string]string {
	merged := make(map[string]string, len(names))
	for _, name := range names {
		if v := MergeText(incoming[name], existing[name]); v != "" {
			merged[name] = v
		}
	}
	return merged
}

var (
	whitespace      = regexp.MustCompile(`\s+`)
	nonFolderChars  = regexp.MustCompile(`[^A-Za-z0-9_]`)
	nonFilenameChar = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// SanitizeFolder turns an applicant name into a storage folder:
// trim, collapse whitespace to '_', drop anything outside [A-Za-z0-9_].
func SanitizeFolder(name string) string {
	s := whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	return nonFolderChars.ReplaceAllString(s, "")
}

// SanitizeFilename keeps the base name of an uploaded file safe for use in a key.
func SanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	s := whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	s = nonFilenameChar.ReplaceAllString(s, "")
	s = strings.TrimLeft(s, ".")
	if s == "" {
		return "file"
	}
	return s
}
