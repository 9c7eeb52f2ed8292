// SPDX-License-Identifier: MPL-2.0

// Package issue holds palm's user-facing failure catalog and the ActionableError type
// used to attach an operation, a resource and remediation hints to an error.
package issue
