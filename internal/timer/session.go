package timer

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase is one half of a round.
type Phase int

const (
	PhaseWork Phase = iota
	PhaseRest
)

func (p Phase) String() string {
	switch p {
	case PhaseWork:
		return "WORK"
	case PhaseRest:
		return "REST"
	}
	return "UNKNOWN"
}

const (
	DefaultWork   = 20
	DefaultRest   = 10
	DefaultRounds = 8
)

// Config holds the interval parameters in seconds.
type Config struct {
	Work   int
	Rest   int
	Rounds int
}

// DefaultConfig returns the classic 20/10 x 8 tabata setup.
func DefaultConfig() Config {
	return Config{Work: DefaultWork, Rest: DefaultRest, Rounds: DefaultRounds}
}

// Normalize replaces non-positive fields with their defaults.
func (c Config) Normalize() Config {
	if c.Work <= 0 {
		c.Work = DefaultWork
	}
	if c.Rest <= 0 {
		c.Rest = DefaultRest
	}
	if c.Rounds <= 0 {
		c.Rounds = DefaultRounds
	}
	return c
}

// ParseConfig builds a Config from user text. Anything that is not a
// positive integer falls back to the default for that field.
func ParseConfig(work, rest, rounds string) Config {
	return Config{
		Work:   atoiOrZero(work),
		Rest:   atoiOrZero(rest),
		Rounds: atoiOrZero(rounds),
	}.Normalize()
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// TotalSeconds is the wall-clock length of a full session. Every phase
// lasts its duration plus the tick that switches it.
func (c Config) TotalSeconds() int {
	c = c.Normalize()
	return (c.Work + 1 + c.Rest + 1) * c.Rounds
}

// Signal is a bit set describing what a tick produced.
type Signal uint8

const (
	// SignalDisplay means the clock or label changed.
	SignalDisplay Signal = 1 << iota
	// SignalCue means a phase boundary was crossed.
	SignalCue
	// SignalComplete means the last rest phase ended.
	SignalComplete
)

func (s Signal) Has(flag Signal) bool {
	return s&flag != 0
}

// Session is a running interval workout. It has no notion of wall-clock
// time: the owner calls Tick once per second.
type Session struct {
	cfg       Config
	round     int
	phase     Phase
	remaining int
	done      bool
}

// NewSession starts a session at round 1 in the work phase.
func NewSession(cfg Config) *Session {
	cfg = cfg.Normalize()
	return &Session{
		cfg:       cfg,
		round:     1,
		phase:     PhaseWork,
		remaining: cfg.Work,
	}
}

// Tick advances the session by one second.
//
// The phase switch happens on the tick that finds the countdown at zero,
// and the newly entered phase is not decremented on that same tick, so a
// phase of N seconds shows N, N-1, ... 1 and then switches.
func (s *Session) Tick() Signal {
	if s.done {
		return 0
	}

	if s.remaining > 0 {
		s.remaining--
		return SignalDisplay
	}

	switch s.phase {
	case PhaseWork:
		s.phase = PhaseRest
		s.remaining = s.cfg.Rest
		return SignalCue | SignalDisplay
	default:
		s.round++
		if s.round > s.cfg.Rounds {
			s.done = true
			s.round = s.cfg.Rounds
			s.remaining = 0
			return SignalComplete
		}
		s.phase = PhaseWork
		s.remaining = s.cfg.Work
		return SignalCue | SignalDisplay
	}
}

func (s *Session) Config() Config { return s.cfg }
func (s *Session) Round() int { return s.round }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Remaining() int { return s.remaining }
func (s *Session) Done() bool { return s.done }
func (s *Session) TotalRounds() int { return s.cfg.Rounds }

// Clock formats the seconds left in the current phase as MM:SS.
func (s *Session) Clock() string {
	return FormatClock(s.remaining)
}

// Label is the phase caption shown under the clock.
func (s *Session) Label() string {
	if s.phase == PhaseWork {
		return fmt.Sprintf("Work – Round %d/%d", s.round, s.cfg.Rounds)
	}
	return "Rest"
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
