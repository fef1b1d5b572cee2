// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	_ "crypto/sha256" // digest algorithms
	_ "crypto/sha512"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/shopspring/decimal"
)

// registerExternal adds codecs for third-party value types that commonly
// show up as flags: versions, identifiers, amounts and content digests.
func registerExternal(r *Registry) {
	MustRegister(r, "semver", semver.NewVersion, (*semver.Version).Original)
	MustRegister(r, "uuid", uuid.Parse, uuid.UUID.String)
	MustRegister(r, "decimal", decimal.NewFromString, decimal.Decimal.String)
	MustRegister(r, "digest", digest.Parse, digest.Digest.String)
}
