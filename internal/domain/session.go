package domain

// Session is the locally persisted login state
type Session struct {
	Username string `json:"username" yaml:"username"`
	Token    string `json:"token" yaml:"token"`
}

// IsLoggedIn is derived from the presence of a stored username
func (s Session) IsLoggedIn() bool {
	return s.Username != ""
}
