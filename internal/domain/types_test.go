package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/royalty-ledger/internal/domain"
)

func TestParseAssetID(t *testing.T) {
	id, err := domain.ParseAssetID("42")
	require.NoError(t, err)
	assert.Equal(t, domain.AssetID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = domain.ParseAssetID("not-a-number")
	assert.Error(t, err)

	_, err = domain.ParseAssetID("-1")
	assert.Error(t, err)
}

func TestLedgerEventValid(t *testing.T) {
	tests := []struct {
		name  string
		event domain.LedgerEvent
		valid bool
	}{
		{
			name: "valid minted event",
			event: domain.LedgerEvent{
				Type:   domain.EventTypeMinted,
				Owner:  domain.AddressPtr("alice"),
				Amount: 100,
			},
			valid: true,
		},
		{
			name: "minted without owner",
			event: domain.LedgerEvent{
				Type:   domain.EventTypeMinted,
				Amount: 100,
			},
			valid: false,
		},
		{
			name: "minted with zero amount",
			event: domain.LedgerEvent{
				Type:  domain.EventTypeMinted,
				Owner: domain.AddressPtr("alice"),
			},
			valid: false,
		},
		{
			name: "valid sold event",
			event: domain.LedgerEvent{
				Type:   domain.EventTypeSold,
				Seller: domain.AddressPtr("alice"),
				Buyer:  domain.AddressPtr("bob"),
				Amount: 100,
			},
			valid: true,
		},
		{
			name: "sold to self",
			event: domain.LedgerEvent{
				Type:   domain.EventTypeSold,
				Seller: domain.AddressPtr("alice"),
				Buyer:  domain.AddressPtr("alice"),
				Amount: 100,
			},
			valid: false,
		},
		{
			name: "sold without buyer",
			event: domain.LedgerEvent{
				Type:   domain.EventTypeSold,
				Seller: domain.AddressPtr("alice"),
				Amount: 100,
			},
			valid: false,
		},
		{
			name: "valid royalty event",
			event: domain.LedgerEvent{
				Type:      domain.EventTypeRoyaltyPaid,
				Recipient: domain.AddressPtr("alice"),
				Amount:    5,
			},
			valid: true,
		},
		{
			name: "royalty with zero amount",
			event: domain.LedgerEvent{
				Type:      domain.EventTypeRoyaltyPaid,
				Recipient: domain.AddressPtr("alice"),
			},
			valid: false,
		},
		{
			name: "unknown type",
			event: domain.LedgerEvent{
				Type:   domain.EventType("burned"),
				Amount: 100,
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.event.Valid())
		})
	}
}

func TestLedgerEventSubject(t *testing.T) {
	ev := domain.LedgerEvent{Type: domain.EventTypeSold}
	assert.Equal(t, "ledger.sold", ev.Subject())

	ev.Type = domain.EventTypeRoyaltyPaid
	assert.Equal(t, "ledger.royalty_paid", ev.Subject())
}
