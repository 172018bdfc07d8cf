// Package actor models "who did this" for every attributable record: a web
// admin account, a Telegram user, or an internal system process. Storage keeps
// the three-nullable-column shape; everything above the storage boundary works
// with Ref.
package actor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedActor is returned when the stored column triple does not hold
// exactly one populated identity.
var ErrMalformedActor = errors.New("malformed actor attribution")

type Kind int

const (
	KindWeb Kind = iota
	KindTelegram
	KindSystem
)

func (k Kind) String() string {
	switch k {
	case KindWeb:
		return "web"
	case KindTelegram:
		return "telegram"
	case KindSystem:
		return "system"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Ref is a closed variant: exactly one identity is populated. The zero value
// is System("").
type Ref struct {
	kind       Kind
	webID      string
	telegramID int64
	systemID   string
}

func Web(id string) Ref {
	return Ref{kind: KindWeb, webID: id}
}

func Telegram(id int64) Ref {
	return Ref{kind: KindTelegram, telegramID: id}
}

func System(identifier string) Ref {
	return Ref{kind: KindSystem, systemID: identifier}
}

func (r Ref) Kind() Kind { return r.kind }

func (r Ref) WebID() (string, bool) {
	return r.webID, r.kind == KindWeb
}

func (r Ref) TelegramID() (int64, bool) {
	return r.telegramID, r.kind == KindTelegram
}

func (r Ref) SystemID() (string, bool) {
	return r.systemID, r.kind == KindSystem
}

func (r Ref) String() string {
	switch r.kind {
	case KindWeb:
		return "web:" + r.webID
	case KindTelegram:
		return "telegram:" + strconv.FormatInt(r.telegramID, 10)
	default:
		return "system:" + r.systemID
	}
}

// Columns is the storage shape: three nullable columns of which exactly one
// must be set for a required actor, and at most one for an optional target.
type Columns struct {
	WebUserID      *string
	TelegramUserID *int64
	SystemID       *string
}

func (c Columns) populated() int {
	n := 0
	if c.WebUserID != nil {
		n++
	}
	if c.TelegramUserID != nil {
		n++
	}
	if c.SystemID != nil {
		n++
	}
	return n
}

// Encode sets exactly one column for the given ref.
func Encode(r Ref) Columns {
	switch r.kind {
	case KindWeb:
		id := r.webID
		return Columns{WebUserID: &id}
	case KindTelegram:
		id := r.telegramID
		return Columns{TelegramUserID: &id}
	default:
		id := r.systemID
		return Columns{SystemID: &id}
	}
}

// Decode rebuilds a Ref from the column triple. Zero or more than one
// populated column is ErrMalformedActor.
func Decode(c Columns) (Ref, error) {
	if n := c.populated(); n != 1 {
		return Ref{}, fmt.Errorf("%w: %d of 3 identity columns populated", ErrMalformedActor, n)
	}
	switch {
	case c.WebUserID != nil:
		return Web(*c.WebUserID), nil
	case c.TelegramUserID != nil:
		return Telegram(*c.TelegramUserID), nil
	default:
		return System(*c.SystemID), nil
	}
}

// DecodeOptional is Decode for target attribution, where the whole triple may
// be absent. All-null decodes to nil; two or more populated columns is still
// ErrMalformedActor.
func DecodeOptional(c Columns) (*Ref, error) {
	if c.populated() == 0 {
		return nil, nil
	}
	ref, err := Decode(c)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

var telegramIDPattern = regexp.MustCompile(`^-?[0-9]+$`)

// ClassifyLegacy maps a free-text actor field from the pre-attribution schema
// onto a Ref. Used only while backfilling the column triple: a known web user
// id wins, then a purely numeric value is a Telegram id, and anything else
// (including the empty string) falls back to a system identifier. Total and
// deterministic so a re-run classifies identically.
func ClassifyLegacy(raw string, isKnownWebUser func(string) bool) Ref {
	if isKnownWebUser != nil && isKnownWebUser(raw) {
		return Web(raw)
	}
	if telegramIDPattern.MatchString(raw) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Telegram(id)
		}
	}
	return System(raw)
}
