package types

import "errors"

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrInvalidCredentials = errors.New("email and password must not be empty")
var ErrPersistence = errors.New("failed to read or write persisted state")
var ErrFetch = errors.New("external data source unavailable")
