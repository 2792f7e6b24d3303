// Package core provides the order quality analysis over ERP exports.
//
// This package is the heart of ordercheck, containing all domain logic
// independent of any transport or storage. It can be used by web handlers,
// CLI commands, or tests without modification.
//
// # Pipeline
//
// Two exports feed the analysis: production order headers and material
// movement documents. The flow is:
//
//  1. A [Source] decodes both files into rows (see package decode)
//  2. [NormalizeHeader] and [NormalizeMovement] map rows to typed records,
//     resolving each field through its ordered [FieldSpec] labels
//  3. [Join] attaches movements to headers by exact order number
//  4. [Classify] sets the unfinished and cross-month flags
//  5. [Service] exposes the result read-only
//
// # Classification Rules
//
// An order is unfinished when its system status contains REL and contains
// neither DLV nor TECO (substring matching, see [IsUnfinished]).
//
// An order has a cross-month error when its first goods receipt (101) and
// first goods issue (261), in source order, were posted in different months
// of the year (see [HasCrossMonthError]).
//
// # Leniency
//
// Parsing never rejects a row. Missing columns read as empty, unparseable
// numbers read as zero, and unparseable dates simply cannot prove a
// mismatch. The one fatal input condition is a file that is not valid text
// in its declared encoding.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE004: Source file errors (format, encoding, read)
//   - ORD001-ORD003: Order lookup and filter errors
//   - REQ001-REQ002: Request cancellation and timeout
package core
