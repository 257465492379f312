// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// nativesso builds the messages of a native SSO flow from the command line.
// It never sends a token request; it prints what would be sent.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
