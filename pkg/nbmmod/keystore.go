// SPDX-License-Identifier: MPL-2.0

package nbmmod

import "github.com/nbmkit/nbmkit/pkg/lazy"

// KeyStore holds the signing credentials handed to the packaging harness.
// Signing itself happens outside this package.
type KeyStore struct {
	file     lazy.Property[string]
	username lazy.Property[string]
	password lazy.Property[string]
}

// File is the key store location.
func (k *KeyStore) File() *lazy.Property[string] { return &k.file }

// Username is the key alias.
func (k *KeyStore) Username() *lazy.Property[string] { return &k.username }

// Password unlocks the key store.
func (k *KeyStore) Password() *lazy.Property[string] { return &k.password }
