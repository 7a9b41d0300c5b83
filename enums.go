package phototinder

import "strconv"

// Outcome is the user's verdict on a comparison pair.
type Outcome int

const (
	OutcomeLeft Outcome = iota // left photo wins
	OutcomeRight
	OutcomeTie
	OutcomeSkip // no verdict; recorded but ratings untouched
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLeft:
		return "left"
	case OutcomeRight:
		return "right"
	case OutcomeTie:
		return "tie"
	case OutcomeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

func (o Outcome) valid() bool {
	return o >= OutcomeLeft && o <= OutcomeSkip
}

// ParseOutcome maps the RPC-side string to an Outcome.
// Returns ErrInvalidInput for anything else.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "left":
		return OutcomeLeft, nil
	case "right":
		return OutcomeRight, nil
	case "tie":
		return OutcomeTie, nil
	case "skip":
		return OutcomeSkip, nil
	default:
		return 0, errInvalid("outcome", s)
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(o.String())), nil
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errInvalid("outcome", string(data))
	}
	v, err := ParseOutcome(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Phase is the pair-selection phase. It only ever moves forward, from
// IntraCluster to Global.
type Phase int

const (
	PhaseIntraCluster Phase = iota
	PhaseGlobal
)

func (p Phase) String() string {
	if p == PhaseGlobal {
		return "global"
	}
	return "intra_cluster"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errInvalid("phase", string(data))
	}
	switch s {
	case "intra_cluster", "":
		*p = PhaseIntraCluster
	case "global":
		*p = PhaseGlobal
	default:
		return errInvalid("phase", s)
	}
	return nil
}

// Decision is the triage verdict for a single photo.
type Decision int

const (
	DecisionPending Decision = iota // no verdict yet; only appears in history records
	DecisionAccepted
	DecisionRejected
	DecisionSkipped
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	case DecisionSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// moved reports whether this decision relocates the photo's file.
func (d Decision) moved() bool {
	return d == DecisionAccepted || d == DecisionRejected
}

// ParseDirection maps a swipe direction to its triage decision:
// left rejects, right accepts, down skips.
func ParseDirection(s string) (Decision, error) {
	switch s {
	case "left":
		return DecisionRejected, nil
	case "right":
		return DecisionAccepted, nil
	case "down":
		return DecisionSkipped, nil
	default:
		return 0, errInvalid("direction", s)
	}
}

func (d Decision) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errInvalid("decision", string(data))
	}
	switch s {
	case "pending", "":
		*d = DecisionPending
	case "accepted":
		*d = DecisionAccepted
	case "rejected":
		*d = DecisionRejected
	case "skipped":
		*d = DecisionSkipped
	default:
		return errInvalid("decision", s)
	}
	return nil
}

// Mode selects which half of the app the user is in.
type Mode int

const (
	ModeTriage Mode = iota
	ModeRanking
)

func (m Mode) String() string {
	if m == ModeRanking {
		return "ranking"
	}
	return "triage"
}

// ParseMode maps the RPC-side string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "triage":
		return ModeTriage, nil
	case "ranking":
		return ModeRanking, nil
	default:
		return 0, errInvalid("mode", s)
	}
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errInvalid("mode", string(data))
	}
	switch s {
	case "triage", "":
		*m = ModeTriage
	case "ranking":
		*m = ModeRanking
	default:
		return errInvalid("mode", s)
	}
	return nil
}
