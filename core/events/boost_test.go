package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestBoostAccruedEvent(t *testing.T) {
	token := common.HexToAddress("0x0000000000000000000000000000000000000b01")
	evt := BoostAccrued{Token: token, Available: big.NewInt(500), AccruedAt: 42}

	if evt.EventType() != TypeBoostAccrued {
		t.Fatalf("unexpected type %q", evt.EventType())
	}
	payload := evt.Event()
	if payload.Type != TypeBoostAccrued {
		t.Fatalf("unexpected payload type %q", payload.Type)
	}
	if payload.Attributes["token"] != token.Hex() {
		t.Fatalf("unexpected token attribute %q", payload.Attributes["token"])
	}
	if payload.Attributes["available"] != "500" {
		t.Fatalf("unexpected available attribute %q", payload.Attributes["available"])
	}
	if payload.Attributes["accruedAt"] != "42" {
		t.Fatalf("unexpected accruedAt attribute %q", payload.Attributes["accruedAt"])
	}
}

func TestCounterpartyUpdatedOmitsZeroOldPair(t *testing.T) {
	token := common.HexToAddress("0x0000000000000000000000000000000000000b01")
	pair := common.HexToAddress("0x0000000000000000000000000000000000000b02")

	payload := BoostCounterpartyUpdated{Token: token, LiquidationPair: pair}.Event()
	if _, ok := payload.Attributes["oldPair"]; ok {
		t.Fatal("expected zero old pair to be omitted")
	}

	payload = BoostCounterpartyUpdated{Token: token, OldPair: pair, LiquidationPair: pair}.Event()
	if payload.Attributes["oldPair"] != pair.Hex() {
		t.Fatalf("expected old pair attribute, got %q", payload.Attributes["oldPair"])
	}
}

func TestNilAmountsFormatAsZero(t *testing.T) {
	payload := BoostDeposited{}.Event()
	if payload.Attributes["amount"] != "0" {
		t.Fatalf("expected nil amount formatted as 0, got %q", payload.Attributes["amount"])
	}
}
