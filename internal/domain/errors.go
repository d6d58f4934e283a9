package domain

import "errors"

var (
	// ErrInvalidPrice is returned when a mint is attempted with a
	// non-positive or unrepresentably large initial price
	ErrInvalidPrice = errors.New("invalid price")

	// ErrUnknownAsset is returned when an operation references an asset id
	// that was never minted
	ErrUnknownAsset = errors.New("unknown asset")

	// ErrSelfPurchase is returned when a buyer attempts to purchase an
	// asset they already own
	ErrSelfPurchase = errors.New("cannot purchase own asset")

	// ErrInsufficientPayment is returned when the tendered payment is
	// below the asset's current price
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrTransferFailed is returned when the vault rejects a disbursement;
	// the enclosing sale rolls back with no state change
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInsufficientFunds is returned by the vault when a debit exceeds
	// the account balance
	ErrInsufficientFunds = errors.New("insufficient funds")
)
