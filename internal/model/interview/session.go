package interview

import "time"

// OpeningQuestion seeds every new session as its first pending question.
const OpeningQuestion = "Hi! Let's begin. Can you introduce yourself?"

// Exchange is one question and the candidate's answer to it.
// Answer stays empty while the question is pending.
type Exchange struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Session captures one interview, from the opening question to the last pending one.
type Session struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Level     string     `json:"level"`
	Mode      string     `json:"mode"`
	Exchanges []Exchange `json:"exchanges"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Pending returns the trailing exchange, which is the question awaiting an answer.
func (s Session) Pending() (Exchange, bool) {
	if len(s.Exchanges) == 0 {
		return Exchange{}, false
	}
	return s.Exchanges[len(s.Exchanges)-1], true
}

// Clone returns a copy that shares no exchange storage with s.
func (s Session) Clone() Session {
	cloned := s
	cloned.Exchanges = append([]Exchange(nil), s.Exchanges...)
	return cloned
}

// WithAnswer returns a copy of s whose pending exchange carries answer.
func (s Session) WithAnswer(answer string) Session {
	cloned := s.Clone()
	if n := len(cloned.Exchanges); n > 0 {
		cloned.Exchanges[n-1].Answer = answer
	}
	return cloned
}
