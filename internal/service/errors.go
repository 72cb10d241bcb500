package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrInvalidArgument    = errors.New("error invalid argument")
	ErrInsufficientFunds  = errors.New("error insufficient funds")
	ErrNoSuchHolding      = errors.New("error no such holding")
	ErrInsufficientShares = errors.New("error insufficient shares")
	ErrNoActiveGame       = errors.New("error no active game")
	ErrGameFinished       = errors.New("error game already finished")
)
