package bds

import "fmt"

var signature = func() (s [SignatureLen]byte) {
	copy(s[:], Magic)
	copy(s[MagicLen:], Version)
	return s
}()

// Signature returns the 12 byte signature that opens every stream.
func Signature() [SignatureLen]byte {
	return signature
}

// CheckSignature validates a stream signature. A foreign magic yields
// ErrSignatureMismatch; a BDS magic with another ABI version yields
// ErrUnsupportedVersion.
func CheckSignature(sig [SignatureLen]byte) error {
	if string(sig[:MagicLen]) != Magic {
		return ErrSignatureMismatch
	}
	if v := string(sig[MagicLen:]); v != Version {
		return fmt.Errorf("%w: got %q want %q", ErrUnsupportedVersion, v, Version)
	}
	return nil
}
