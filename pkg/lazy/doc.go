// SPDX-License-Identifier: MPL-2.0

// Package lazy models configuration values that may not be known when they
// are declared.
//
// A [Value] is one of three sources:
//   - [Literal]: a value fixed at configuration time
//   - [Computed]: a function evaluated on read, typically deriving a default
//     from other properties
//   - [External]: a named reference supplied by the host build runtime,
//     evaluated on read
//
// Every source is forced through the single [Resolve] function. A [Property]
// pairs an explicit value with a convention (default) and reads whichever is
// present, so default chains like "archive name derives from module name"
// are expressed by mapping one property into another's convention.
//
// Reads are not cached. A property whose source can change between reads
// yields the current value on every read; callers that need a single
// captured value (such as a build timestamp) memoize it themselves.
package lazy
