package social

import (
	"errors"
	"fmt"
)

var ErrTokenRequired = errors.New("twitter bearer token is required")
var ErrTweetIDRequired = errors.New("tweet id or url is required")
var ErrInvalidTweetID = errors.New("invalid tweet id")
var ErrUsernameRequired = errors.New("username is required")
var ErrQueryRequired = errors.New("search query is required")
var ErrUserNotFound = errors.New("twitter user not found")

// UpstreamError is a non-200 reply from the Twitter API. Body is passed
// through verbatim.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("twitter api returned status %d", e.Status)
}
