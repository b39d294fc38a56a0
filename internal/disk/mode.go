package disk

import "github.com/diskscan/diskscan/internal/domain"

// modeKind tags which case of HeadMode is active. HeadMode is modeled as a
// tagged struct rather than an interface-plus-type-switch: Go has no sum
// type, and a closed three-case enum with a couple of associated fields is
// cheaper to construct, copy, and compare than an interface hierarchy.
type modeKind int

const (
	modeIdle modeKind = iota
	modeReading
	modeSeeking
)

// seekTarget is the destination and direction of an in-progress seek. The
// direction is fixed at the moment the seek begins; it is never
// recomputed mid-seek even if that would no longer match destination vs.
// the (stale) starting track.
type seekTarget struct {
	destination int
	direction   domain.SeekDirection
}

// headMode is the tagged union of the disk's three motion states:
// Idle, Reading(targetAngle), Seeking(seekTarget). Only the fields relevant
// to kind are meaningful; the others are zero value.
type headMode struct {
	kind        modeKind
	targetAngle int
	seek        seekTarget
}

func idleMode() headMode {
	return headMode{kind: modeIdle}
}

func readingMode(targetAngle int) headMode {
	return headMode{kind: modeReading, targetAngle: targetAngle}
}

func seekingMode(destination int, direction domain.SeekDirection) headMode {
	return headMode{kind: modeSeeking, seek: seekTarget{destination: destination, direction: direction}}
}

func (m headMode) kindName() domain.ModeKind {
	switch m.kind {
	case modeReading:
		return domain.ModeReading
	case modeSeeking:
		return domain.ModeSeeking
	default:
		return domain.ModeIdle
	}
}
