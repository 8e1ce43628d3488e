package chat

import "errors"

// ErrNoTutorService is returned when no tutor service is available.
var ErrNoTutorService = errors.New("chat: tutor service not available")
