package session

import "github.com/google/uuid"

// Session holds the identity of the interactive user. It is created per
// process and passed explicitly to every operation.
type Session struct {
	id    string
	login string
}

func New() *Session {
	return &Session{id: uuid.New().String()}
}

// ID is the trace identifier attached to log lines of this session.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

func (s *Session) Authenticate(login string) {
	s.login = login
}

func (s *Session) Logout() {
	s.login = ""
}

func (s *Session) Login() string {
	if s == nil {
		return ""
	}
	return s.login
}

func (s *Session) IsAuthenticated() bool {
	return s.Login() != ""
}
