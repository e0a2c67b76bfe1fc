package crypto

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// VerifyAddress re-derives the address of privateKeyHex and compares it to address,
// ignoring case and an optional 0x prefix.
//
// The curve arithmetic goes through btcec rather than the generator's go-ethereum
// path, so a defect in either implementation shows up as a mismatch.
func VerifyAddress(address, privateKeyHex string) bool {
	want, err := MustAddressBytes(address)
	if err != nil {
		return false
	}
	secret, err := PrivateKeyBytes(privateKeyHex)
	if err != nil {
		return false
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(secret); overflow || scalar.IsZero() {
		return false
	}

	_, pub := btcec.PrivKeyFromBytes(secret)
	got, err := AddressFromPubKey(pub.SerializeUncompressed())
	if err != nil {
		return false
	}
	return strings.EqualFold(hex.EncodeToString(got), hex.EncodeToString(want))
}
