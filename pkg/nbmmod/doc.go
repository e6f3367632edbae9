// SPDX-License-Identifier: MPL-2.0

// Package nbmmod resolves the metadata descriptor of a NetBeans module (NBM).
//
// A [Descriptor] owns every configurable field of a module: identity,
// versions, visibility declarations, installer metadata and output
// locations. Fields are [lazy.Property] values, so each can hold a literal,
// a derived default, or a reference supplied later by the host build.
//
// # Configure, then read
//
// A descriptor is configured incrementally and read afterwards. Each field
// is evaluated the first time it is read and on every read after that;
// there is no global freeze. The one exception is the build timestamp,
// which is sampled from the injected clock once and reused for the build
// version and the last-modified marker. Collections mutated after being
// read are only reflected by a fresh read.
//
// # Visibility
//
//   - [FriendSet]: modules allowed to use the public packages
//   - [PublicPackageSet]: packages exported to other modules, declared by name
//     or discovered by scanning a [SourceSet]
//
// # Output
//
// [Descriptor.ManifestAttributes] assembles the OpenIDE manifest headers and
// [Descriptor.Resolve] returns every resolved field for the packaging step.
package nbmmod
