// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"math/bits"
	"net/url"
	"strconv"
	"strings"
	"time"
)

func registerBuiltins(r *Registry) {
	MustRegister(r, "string",
		func(s string) (string, error) { return s, nil },
		func(s string) string { return s })
	MustRegister(r, "bool",
		func(s string) (bool, error) {
			v, err := strconv.ParseBool(s)
			return v, numError(err)
		},
		strconv.FormatBool)

	registerSigned[int](r, "int", bits.UintSize)
	registerSigned[int8](r, "int8", 8)
	registerSigned[int16](r, "int16", 16)
	registerSigned[int32](r, "int32", 32)
	registerSigned[int64](r, "int64", 64)
	registerUnsigned[uint](r, "uint", bits.UintSize)
	registerUnsigned[uint8](r, "uint8", 8)
	registerUnsigned[uint16](r, "uint16", 16)
	registerUnsigned[uint32](r, "uint32", 32)
	registerUnsigned[uint64](r, "uint64", 64)

	MustRegister(r, "float32",
		func(s string) (float32, error) {
			v, err := strconv.ParseFloat(s, 32)
			return float32(v), numError(err)
		},
		func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) })
	MustRegister(r, "float64",
		func(s string) (float64, error) {
			v, err := strconv.ParseFloat(s, 64)
			return v, numError(err)
		},
		func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })

	MustRegister(r, "duration", time.ParseDuration, time.Duration.String)
	MustRegister(r, "url", url.Parse, (*url.URL).String)
	MustRegister(r, "strings", parseList, func(v []string) string { return strings.Join(v, ",") })

	registerExternal(r)
}

func registerSigned[T ~int | ~int8 | ~int16 | ~int32 | ~int64](r *Registry, name string, size int) {
	MustRegister(r, name,
		func(s string) (T, error) {
			v, err := strconv.ParseInt(s, 10, size)
			return T(v), numError(err)
		},
		func(v T) string { return strconv.FormatInt(int64(v), 10) })
}

func registerUnsigned[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](r *Registry, name string, size int) {
	MustRegister(r, name,
		func(s string) (T, error) {
			v, err := strconv.ParseUint(s, 10, size)
			return T(v), numError(err)
		},
		func(v T) string { return strconv.FormatUint(uint64(v), 10) })
}

// parseList splits a comma-separated list, dropping empty elements.
func parseList(s string) ([]string, error) {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}
