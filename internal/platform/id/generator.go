package id

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"
)

// ContentLength is the number of hex characters kept from a content hash.
const ContentLength = 16

// Generator creates opaque IDs suitable for run references.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return value.String(), nil
}

// ContentHash encodes payload as standard JSON and returns the first 16 hex
// characters of its MD5. Equal payloads give equal hashes across runs, so
// callers must pass structs (fixed field order) with pre-sorted slices.
func ContentHash(payload any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigStd.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode content payload: %w", err)
	}

	sum := md5.Sum(buf.Bytes())
	return hex.EncodeToString(sum[:])[:ContentLength], nil
}
