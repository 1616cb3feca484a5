package engine

import "github.com/google/uuid"

func newSessionID() string {
	return "session_" + uuid.NewString()
}
