package domain

import "errors"

// ErrCredentialUnavailable marks a credential source whose material is not
// present; the chain moves on without treating it as a failure worth logging.
var ErrCredentialUnavailable = errors.New("credential unavailable")
