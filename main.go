// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/nbmkit/nbmkit/cmd/nbm"

func main() {
	cmd.Execute()
}
