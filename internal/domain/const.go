package domain

const (
	// Royalty constants: every sale sets aside floor(price * 10 / 100)
	// for historical owners and escalates the price to floor(price * 110 / 100)
	ROYALTY_NUMERATOR    = 10
	ESCALATION_NUMERATOR = 110
	RATE_DENOMINATOR     = 100

	// TreasuryAddress is the vault account every purchase settles through.
	// Undistributed royalty remainders accumulate here.
	TreasuryAddress Address = "treasury"
)
