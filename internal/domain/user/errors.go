package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with that email already exists")
	ErrUsernameExists     = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
