package boost

import (
	"math/big"

	"github.com/holiman/uint256"
)

// ray is the fixed-point base shared by rate multipliers: 18 fractional
// decimal digits.
var ray = big.NewInt(1_000_000_000_000_000_000)

// maxRateMultiplier bounds the configurable multiplier to [0, 2e18), matching
// the bounded fixed-point representation of the accrual schedule.
var maxRateMultiplier = new(big.Int).Mul(big.NewInt(2), ray)

// flatAccrual computes tokensPerSecond * deltaTime with checked arithmetic.
func flatAccrual(tokensPerSecond *big.Int, deltaTime uint64) (*big.Int, error) {
	tps, overflow := uint256.FromBig(tokensPerSecond)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	product, overflow := new(uint256.Int).MulOverflow(tps, uint256.NewInt(deltaTime))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return product.ToBig(), nil
}

// supplyAccrual computes floor(multiplier * deltaTime * integratedSupply / ray)
// with checked arithmetic. Rounding truncates toward zero.
func supplyAccrual(multiplier, integratedSupply *big.Int, deltaTime uint64) (*big.Int, error) {
	if integratedSupply == nil || integratedSupply.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	m, overflow := uint256.FromBig(multiplier)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	supply, overflow := uint256.FromBig(integratedSupply)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	product, overflow := new(uint256.Int).MulOverflow(m, uint256.NewInt(deltaTime))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	product, overflow = product.MulOverflow(product, supply)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	rayDivisor, _ := uint256.FromBig(ray)
	return new(uint256.Int).Div(product, rayDivisor).ToBig(), nil
}

// checkedAdd sums two non-negative amounts with overflow detection so a
// mis-configured schedule aborts instead of wrapping.
func checkedAdd(a, b *big.Int) (*big.Int, error) {
	x, overflow := uint256.FromBig(a)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	y, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	sum, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return sum.ToBig(), nil
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
