package exception

import "github.com/yanun0323/errors"

var (
	ErrConnectionClose   = errors.New("connection closed")
	ErrNotConnected      = errors.New("not connected")
	ErrAlreadyConnected  = errors.New("already connected")
	ErrHandshakeRejected = errors.New("handshake rejected")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNilInstance       = errors.New("nil instance")
)
