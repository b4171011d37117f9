// Package attachments reconciles uploaded application documents with the
// URLs already stored on a record.
package attachments

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrIncomplete  = errors.New("required documents missing")
	ErrUnknownSlot = errors.New("unexpected document field")
)

// Slot is one named document an application carries.
type Slot struct {
	Name     string
	Label    string
	Optional bool
}

// File is an uploaded document held in memory until it is stored.
type File struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// SlotError names the slots that failed a check.
type SlotError struct {
	Kind  error
	Slots []string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Slots, ", "))
}

func (e *SlotError) Unwrap() error {
	return e.Kind
}

// Names returns slot names in declaration order.
func Names(slots []Slot) []string {
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return names
}

// RequireUploads checks a create request: every non-optional slot must be
// uploaded and no file may target an unknown slot.
func RequireUploads(slots []Slot, files map[string]File) error {
	if err := CheckKnown(slots, files); err != nil {
		return err
	}

	var missing []string
	for _, s := range slots {
		if s.Optional {
			continue
		}
		if f, ok := files[s.Name]; !ok || len(f.Data) == 0 {
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return &SlotError{Kind: ErrIncomplete, Slots: missing}
	}
	return nil
}

// CheckReplacements checks an update request: files may only target known
// slots and an uploaded file must not be empty.
func CheckReplacements(slots []Slot, files map[string]File) error {
	if err := CheckKnown(slots, files); err != nil {
		return err
	}

	var empty []string
	for _, s := range slots {
		if f, ok := files[s.Name]; ok && len(f.Data) == 0 {
			empty = append(empty, s.Name)
		}
	}
	if len(empty) > 0 {
		return &SlotError{Kind: ErrIncomplete, Slots: empty}
	}
	return nil
}

// CheckKnown rejects files whose field is not one of slots.
func CheckKnown(slots []Slot, files map[string]File) error {
	known := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		known[s.Name] = struct{}{}
	}

	var unknown []string
	for field := range files {
		if _, ok := known[field]; !ok {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &SlotError{Kind: ErrUnknownSlot, Slots: unknown}
	}
	return nil
}
