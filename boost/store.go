package boost

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/GenerationSoftware/pt-v5-vault-boost/storage"
)

var boostKeyPrefix = []byte("boost/")

// storedBoost is the RLP wire form of a boost record.
type storedBoost struct {
	LiquidationPair common.Address
	RateMultiplier  *big.Int
	TokensPerSecond *big.Int
	Available       *big.Int
	LastAccruedAt   uint64
}

// LedgerStore persists boost records in a key-value database, satisfying the
// LedgerState interface consumed by the engine.
type LedgerStore struct {
	db storage.Database
}

// NewLedgerStore wraps the supplied database.
func NewLedgerStore(db storage.Database) *LedgerStore {
	return &LedgerStore{db: db}
}

// GetBoost loads the record for a token. A token that has never been
// configured yields (nil, nil).
func (s *LedgerStore) GetBoost(token common.Address) (*Boost, error) {
	raw, err := s.db.Get(boostKey(token))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stored storedBoost
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, fmt.Errorf("boost: decode record for %s: %w", token.Hex(), err)
	}
	return &Boost{
		LiquidationPair: stored.LiquidationPair,
		RateMultiplier:  stored.RateMultiplier,
		TokensPerSecond: stored.TokensPerSecond,
		Available:       stored.Available,
		LastAccruedAt:   stored.LastAccruedAt,
	}, nil
}

// PutBoost writes the record for a token.
func (s *LedgerStore) PutBoost(token common.Address, boost *Boost) error {
	if boost == nil {
		return ErrNilState
	}
	boost = boost.normalize()
	raw, err := rlp.EncodeToBytes(&storedBoost{
		LiquidationPair: boost.LiquidationPair,
		RateMultiplier:  boost.RateMultiplier,
		TokensPerSecond: boost.TokensPerSecond,
		Available:       boost.Available,
		LastAccruedAt:   boost.LastAccruedAt,
	})
	if err != nil {
		return fmt.Errorf("boost: encode record for %s: %w", token.Hex(), err)
	}
	return s.db.Put(boostKey(token), raw)
}

func boostKey(token common.Address) []byte {
	key := make([]byte, 0, len(boostKeyPrefix)+common.AddressLength)
	key = append(key, boostKeyPrefix...)
	return append(key, token.Bytes()...)
}
