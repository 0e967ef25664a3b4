// Package requestid generates request correlation identifiers.
//
// Two interchangeable schemes are supported:
//
//   - ULID (default): 26 Crockford base-32 characters, a 48-bit millisecond
//     timestamp followed by 80 random bits. Identifiers from one generator
//     sort lexicographically in generation order.
//   - UUID: RFC 4122 version 4, 36 characters in the canonical 8-4-4-4-12 form.
//
// A Generator is bound to one scheme. Clock and entropy are injected so
// tests can pin the exact identifier layout:
//
//	gen, err := requestid.NewGenerator(requestid.SchemeULID,
//	    requestid.WithClock(fixedClock),
//	    requestid.WithEntropy(bytes.NewReader(seed)),
//	)
//
// The ULID generator keeps a high-water mark of the last millisecond it
// emitted. A clock that steps backwards reuses the mark, so output of one
// generator never decreases.
package requestid
