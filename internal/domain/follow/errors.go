package follow

import "errors"

var (
	ErrSelfFollow        = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("you are already subscribed to this author")
	ErrNotSubscribed     = errors.New("you are not subscribed to this author")
	ErrAuthorNotFound    = errors.New("author not found")
)
