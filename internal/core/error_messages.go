package core

// error_messages.go maps technical errors to messages for API clients.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Invalid CSV: Source file is not valid delimited text
//	          Action: Re-export the report as delimited text
//	          Patterns: "invalid csv"
//
//	FILE002 - Unknown encoding: Configured source encoding is not supported
//	          Action: Set SOURCE_ENCODING to a supported label such as euc-kr
//	          Patterns: "unknown encoding"
//
//	FILE003 - Encoding error: Source file contains characters invalid for its encoding
//	          Action: Re-export using the configured encoding (default EUC-KR)
//	          Patterns: "encoding error"
//
//	FILE004 - Read error: Source file could not be read
//	          Action: Check file permissions on the data directory
//	          Patterns: "read source"
//
// # Order Errors (ORD001-ORD099)
//
//	ORD001 - Order not found: No order with this number in the header export
//	         Action: Check the order number or refresh the export
//	         Patterns: "order not found"
//
//	ORD002 - Invalid filter: Filter value is not recognized
//	         Action: Use filter=unfinished or filter=error
//	         Patterns: "invalid filter"
//
//	ORD003 - Invalid date: Date bound is not a calendar date
//	         Action: Use YYYY-MM-DD
//	         Patterns: "invalid date"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Patterns are matched
// case-insensitively with strings.Contains; the first match wins.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Source file is not valid delimited text",
			Action:  "Re-export the report as delimited text",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unknown encoding",
		msg: UserMessage{
			Message: "Configured source encoding is not supported",
			Action:  "Set SOURCE_ENCODING to a supported label such as euc-kr",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "Source file contains characters invalid for its encoding",
			Action:  "Re-export using the configured encoding (default EUC-KR)",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read source",
		msg: UserMessage{
			Message: "Source file could not be read",
			Action:  "Check file permissions on the data directory",
			Code:    "FILE004",
		},
	},

	// Order errors
	{
		pattern: "order not found",
		msg: UserMessage{
			Message: "No order with this number in the header export",
			Action:  "Check the order number or refresh the export",
			Code:    "ORD001",
		},
	},
	{
		pattern: "invalid filter",
		msg: UserMessage{
			Message: "Filter value is not recognized",
			Action:  "Use filter=unfinished or filter=error",
			Code:    "ORD002",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Date bound is not a calendar date",
			Action:  "Use YYYY-MM-DD",
			Code:    "ORD003",
		},
	},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns a zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders a UserMessage as a single line.
func FormatUserError(msg UserMessage) string {
	if msg.Action == "" {
		return fmt.Sprintf("%s (%s)", msg.Message, msg.Code)
	}
	return fmt.Sprintf("%s. %s (%s)", msg.Message, msg.Action, msg.Code)
}
