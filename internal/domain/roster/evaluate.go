package roster

// Mode composes the two met flags into the four external query policies.
type Mode string

const (
	ModePoint  Mode = "point"
	ModeCredit Mode = "credit"
	ModeBoth   Mode = "both"
	ModeAny    Mode = "any"
)

func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModePoint, ModeCredit, ModeBoth, ModeAny:
		return Mode(raw), true
	case "":
		return ModeAny, true
	}
	return "", false
}

// Matches reports whether an employee satisfies the query policy. Manual
// roster entries always pass under "any", regardless of current met flags.
func (m Mode) Matches(pointMet, creditMet, manual bool) bool {
	switch m {
	case ModePoint:
		return pointMet
	case ModeCredit:
		return creditMet
	case ModeBoth:
		return pointMet && creditMet
	default:
		return pointMet || creditMet || manual
	}
}
