// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package shamir implements Shamir's (k, n) threshold secret sharing over a
// prime field.
//
// A secret is split into n shares such that any k of them reconstruct it
// exactly, while k-1 or fewer reveal nothing about it.
//
// # Mathematical Foundation
//
// The secret is the constant term a0 of a random polynomial of degree k-1
// over GF(p):
//
//	f(x) = a0 + a1*x + a2*x^2 + ... + a(k-1)*x^(k-1)   mod p
//
// The coefficients a1 through a(k-1) are drawn uniformly from [1, p-1].
// Share i is the point (i, f(i)) for i = 1..n. x = 0 is never issued since
// f(0) is the secret. Any k points determine f uniquely, and Lagrange
// interpolation at x = 0 returns a0.
//
// The default field is p = 2^127 - 1, so secrets are integers in
// [0, 2^127 - 1).
//
// # Usage Example
//
//	scheme := shamir.New(nil) // p = 2^127 - 1, crypto/rand
//
//	shares, err := scheme.SplitExistingSecret(big.NewInt(1234), 5, 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Later, any 3 of the 5 shares
//	secret, err := scheme.RecoverSecret([]shamir.Share{shares[0], shares[2], shares[4]})
//
// # Security Properties
//
//   - Information-theoretic security: k-1 shares reveal no information
//   - Entropy must come from a cryptographically secure source; inject it
//     through Config.Rand (see pkg/crypto/rand for hardware sources)
//   - The polynomial is wiped after every split and is never returned
//
// # Limitations
//
//   - Shares are not authenticated. A corrupted or malicious share is
//     accepted and yields a wrong secret without an error.
//   - Recovery does not know k. Two or more shares but fewer than k
//     interpolate to a different polynomial and return a wrong value
//     without an error.
//   - Arithmetic uses math/big and is not constant time.
//
// # Constraints
//
//   - 1 <= k <= n < p
//   - 0 <= secret < p
//   - Generated secrets have between 1 and digits(p)-1 decimal digits
//     (38 for the default field)
//   - Recovery needs at least 2 shares with distinct x coordinates
//
// # References
//
// - Shamir, Adi (1979). "How to Share a Secret"
package shamir
