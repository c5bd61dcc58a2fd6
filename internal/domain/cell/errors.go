package cell

import "errors"

var (
	// ErrTextTooLong indicates a rich-text changeset exceeding MaxTextLength.
	ErrTextTooLong = errors.New("text exceeds maximum length")
	// ErrInvalidData indicates a malformed changeset payload.
	ErrInvalidData = errors.New("invalid cell data")
)
