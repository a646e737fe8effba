// Package randtoken generates opaque, high-entropy identifiers.
//
// Each token is 32 bytes drawn from crypto/rand and rendered as 64 lowercase hex
// characters. Tokens carry no user identity and are never derived from counters
// or timestamps.
//
//	gen, err := randtoken.New()
//	if err != nil {
//		return err
//	}
//	tok, err := gen.Generate() // "9f86d081884c7d65..."
//
// A custom source can be injected with WithSource. A nil source is rejected by
// New with ErrEntropySourceUnavailable, and read failures surface the same error
// joined with the cause.
package randtoken
