package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func formatAmount(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

func zeroAddress(addr common.Address) bool {
	return addr == (common.Address{})
}
