package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Market / stock ledger
	ProductNotFound   failure.ErrorCode = "ProductNotFound"
	InsufficientStock failure.ErrorCode = "InsufficientStock"
	InvalidQuantity   failure.ErrorCode = "InvalidQuantity"
	WriteConflict     failure.ErrorCode = "WriteConflict"

	// Wallet ledger
	WalletNotFound       failure.ErrorCode = "WalletNotFound"
	InsufficientFunds    failure.ErrorCode = "InsufficientFunds"
	InsufficientHoldings failure.ErrorCode = "InsufficientHoldings"
	ItemNotOwned         failure.ErrorCode = "ItemNotOwned"

	// Social graph
	SelfReference    failure.ErrorCode = "SelfReference"
	AlreadyConnected failure.ErrorCode = "AlreadyConnected"
	AlreadyPending   failure.ErrorCode = "AlreadyPending"
	RequestNotFound  failure.ErrorCode = "RequestNotFound"

	// Missions
	MissionNotFound       failure.ErrorCode = "MissionNotFound"
	MissionNotCompleted   failure.ErrorCode = "MissionNotCompleted"
	MissionAlreadyClaimed failure.ErrorCode = "MissionAlreadyClaimed"

	// Crypto market
	UnknownSymbol failure.ErrorCode = "UnknownSymbol"
)
