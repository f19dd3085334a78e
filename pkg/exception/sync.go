package exception

import "github.com/yanun0323/errors"

var (
	ErrInvalidMessage   = errors.New("sync: invalid message")
	ErrUnknownEventType = errors.New("sync: unknown event type")
	ErrRetriesExhausted = errors.New("sync: reconnect attempts exhausted")
	ErrClientClosed     = errors.New("sync: client closed")
	ErrJournalClosed    = errors.New("sync: journal closed")
)
