// Package drm identifies content protection systems by their 16-byte system ids.
package drm

import (
	"github.com/google/uuid"
)

// System is a content protection system known to the decoder.
type System uint8

const (
	Unknown System = iota
	Common
	PlayReady
	Widevine
)

var (
	CommonSystemID    = uuid.MustParse("1077efec-c0b2-4d02-ace3-3c1e52e2fb4b")
	PlayReadySystemID = uuid.MustParse("9a04f079-9840-4286-ab92-e65be0885f95")
	WidevineSystemID  = uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed")
)

var systemByID = map[uuid.UUID]System{
	CommonSystemID:    Common,
	PlayReadySystemID: PlayReady,
	WidevineSystemID:  Widevine,
}

var idBySystem = map[System]uuid.UUID{
	Common:    CommonSystemID,
	PlayReady: PlayReadySystemID,
	Widevine:  WidevineSystemID,
}

// Lookup maps a system id to its System. Ids missing from the table resolve to Unknown.
func Lookup(id uuid.UUID) System {
	return systemByID[id]
}

// ID returns the system id registered for s.
func (s System) ID() (uuid.UUID, bool) {
	id, ok := idBySystem[s]
	return id, ok
}

func (s System) String() string {
	switch s {
	case Common:
		return "COMMON"
	case PlayReady:
		return "PLAYREADY"
	case Widevine:
		return "WIDEVINE"
	default:
		return "UNKNOWN"
	}
}
