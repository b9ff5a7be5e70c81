package domain

// Turn roles as persisted in chat_history.json.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

// Turn is a single conversation turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered, append-only history of a conversation. It is
// the only owner of turn state; persistence goes through an explicit
// store so in-memory and on-disk state cannot diverge silently.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// TranscriptFromTurns rebuilds a transcript from persisted turns.
func TranscriptFromTurns(turns []Turn) *Transcript {
	t := &Transcript{}
	t.turns = append(t.turns, turns...)
	return t
}

// AddHuman appends a user turn.
func (t *Transcript) AddHuman(content string) {
	t.turns = append(t.turns, Turn{Role: RoleHuman, Content: content})
}

// AddAI appends an assistant turn.
func (t *Transcript) AddAI(content string) {
	t.turns = append(t.turns, Turn{Role: RoleAI, Content: content})
}

// Turns returns a copy of the turn sequence in call order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Clear empties the transcript in memory. It does not touch persisted
// state; an explicit save is required to propagate.
func (t *Transcript) Clear() {
	t.turns = nil
}
