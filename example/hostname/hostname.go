// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hostname shows how an application registers its own flag type.
//
//	hostname dial --host db.internal --port 5432
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/cmdline"
	"github.com/yeetrun/cmdtree/pkg/codec"
	"github.com/yeetrun/cmdtree/pkg/command"
	"tailscale.com/util/must"
)

// Hostname is a lower-cased DNS name.
type Hostname string

func parseHostname(s string) (Hostname, error) {
	s = strings.ToLower(strings.TrimSuffix(s, "."))
	if s == "" || len(s) > 253 {
		return "", errors.New("bad length")
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" || len(label) > 63 || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return "", fmt.Errorf("bad label %q", label)
		}
		for _, r := range label {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				return "", fmt.Errorf("bad character %q", r)
			}
		}
	}
	return Hostname(s), nil
}

func dial(_ context.Context, c *command.Command, _ []string) int {
	host, _ := command.Get[Hostname](c, "host")
	port, _ := command.Get[uint16](c, "port")
	fmt.Println(net.JoinHostPort(string(host), fmt.Sprint(port)))
	return command.ExitOK
}

func main() {
	reg := codec.NewRegistry()
	must.Do(codec.Register(reg, "hostname", parseHostname, nil))

	root := command.New("hostname", "Print the address a dial would use.", nil, command.WithCodecs(reg))
	must.Do(command.AddPersistentFlag(root, "host", "Target host", Hostname("localhost"), "H"))
	d := must.Get(root.NewSubcommand("dial", "Print host:port", dial))
	must.Do(command.AddLocalFlag(d, "port", "Target port", uint16(80), "p"))

	os.Exit(cmdline.Run(context.Background(), root, os.Args[1:]))
}
