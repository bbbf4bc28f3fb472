// Package bookmark holds the bookmark data model and its JSON-backed store.
package bookmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Entry is one bookmark: a login target plus optional extra client arguments.
//
// A nil Args means no extra arguments were supplied. A non-nil empty Args is
// kept as an explicit empty list and survives a save/load round trip.
type Entry struct {
	Addr string   `json:"addr"`
	Args []string `json:"args,omitzero"`
}

// Argv is a validated argument vector: no element contains a NUL byte.
type Argv []string

// NewEntry builds an entry for addr. Without rawArgs the entry carries no
// extra arguments; otherwise each raw string is split on ASCII whitespace.
func NewEntry(addr string, rawArgs ...string) Entry {
	e := Entry{Addr: addr}
	if len(rawArgs) == 0 {
		return e
	}
	e.Args = []string{}
	for _, raw := range rawArgs {
		e.Args = append(e.Args, splitASCIIFields(raw)...)
	}
	return e
}

// Argv spends the bookmark: the extra arguments come first and the address
// last, matching the client's flags-then-target convention. The result never
// shares memory with e.Args.
func (e Entry) Argv() (Argv, error) {
	out := make(Argv, 0, len(e.Args)+1)
	out = append(out, e.Args...)
	out = append(out, e.Addr)
	for i, s := range out {
		if strings.IndexByte(s, 0) >= 0 {
			return nil, &EmbeddedNulError{Value: s, Index: i}
		}
	}
	return out, nil
}

// UnmarshalJSON rejects entries without an addr string, including a bare
// null.
func (e *Entry) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return errors.New("bookmark entry is null")
	}
	var raw struct {
		Addr *string  `json:"addr"`
		Args []string `json:"args"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Addr == nil {
		return errors.New("missing field `addr`")
	}
	e.Addr, e.Args = *raw.Addr, raw.Args
	return nil
}

// Validate reports the first part of the bookmark at key that is not valid
// UTF-8. The document is JSON, which would replace such bytes.
func Validate(key string, e Entry) error {
	if !utf8.ValidString(key) {
		return &InvalidUTF8Error{Key: key, Field: "key"}
	}
	if !utf8.ValidString(e.Addr) {
		return &InvalidUTF8Error{Key: key, Field: "addr"}
	}
	for i, a := range e.Args {
		if !utf8.ValidString(a) {
			return &InvalidUTF8Error{Key: key, Field: fmt.Sprintf("args[%d]", i)}
		}
	}
	return nil
}

func (e Entry) String() string {
	if e.Args == nil {
		return "(addr: " + e.Addr + ")"
	}
	quoted := make([]string, len(e.Args))
	for i, a := range e.Args {
		quoted[i] = strconv.Quote(a)
	}
	return "(addr: " + e.Addr + ", args: [" + strings.Join(quoted, ", ") + "])"
}

func splitASCIIFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return true
		}
		return false
	})
}
