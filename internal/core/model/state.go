package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in the conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnState is the full record threaded through one pipeline execution.
// The session owner hands a copy in and replaces its record wholesale with
// what the pipeline returns; stages carry forward every field they do not
// intend to change.
type TurnState struct {
	Messages             []Message       `json:"messages"`
	Members              Directory       `json:"members"`
	Preferences          string          `json:"preferences"`
	Budget               string          `json:"budget"`
	CandidateRestaurants []Restaurant    `json:"candidate_restaurants"`
	TransportationScores []FairnessScore `json:"transportation_scores"`
	FinalSuggestions     string          `json:"final_suggestions"`
	NeedsNewSearch       bool            `json:"needs_new_search"`
	FollowupResponse     string          `json:"followup_response"`
	IsInitialRequest     bool            `json:"is_initial_request"`
}

// NewTurnState returns the empty conversation record for a fresh session.
func NewTurnState() TurnState {
	return TurnState{
		Members:              Directory{},
		CandidateRestaurants: []Restaurant{},
		TransportationScores: []FairnessScore{},
		IsInitialRequest:     true,
	}
}

// Clone deep-copies the state so the pipeline can mutate freely while the
// persisted record stays intact until the turn completes.
func (s TurnState) Clone() TurnState {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	out.Members = s.Members.Clone()
	out.CandidateRestaurants = append([]Restaurant(nil), s.CandidateRestaurants...)
	out.TransportationScores = append([]FairnessScore(nil), s.TransportationScores...)
	return out
}

// AppendMessage appends one transcript entry. Messages only grows within a
// session, never truncates.
func (s *TurnState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// LastUserMessage returns the most recent user entry, or "" when none exists.
func (s *TurnState) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}
