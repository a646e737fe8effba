// Package session keeps a single in-memory user session.
//
// A Registry is an explicit, constructible object: whoever owns it decides its
// lifetime. It holds at most one Session at a time. Create replaces the live
// session unconditionally, Current reads it and Clear discards it.
//
//	reg, err := session.NewRegistry(session.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	sess, err := reg.Create("alice")
//	if errors.Is(err, session.ErrInvalidInput) {
//		// blank user ID
//	}
//
//	if cur, ok := reg.Current(); ok {
//		fmt.Println(cur.UserID, cur.CreatedAtMillis())
//	}
//
//	reg.Clear() // logout; safe to call repeatedly
//
// Tokens are produced by a TokenGenerator, by default randtoken with crypto/rand.
// Failed calls never touch the live session.
package session
