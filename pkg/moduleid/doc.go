// SPDX-License-Identifier: MPL-2.0

// Package moduleid validates NetBeans module code names.
//
// A module code name is a Java-style dotted identifier with an optional
// trailing major release version, for example "org.example.editor" or
// "org.example.editor/2". The same grammar applies to the module's own name
// and to every friend module it grants access to.
//
// Validation never corrects input: a candidate either matches [Pattern]
// exactly or is rejected with an [*InvalidModuleNameError].
package moduleid
