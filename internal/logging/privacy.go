// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

package logging

import "strings"

// SanitizeUserID masks a user identifier for logs. Email-like ids keep the
// first two characters of the local part and the domain; other ids keep
// their first and last four characters.
//
//	SanitizeUserID("jane.doe@example.com") // "ja***@example.com"
//	SanitizeUserID("user-12345678")        // "user...5678"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if at := strings.LastIndex(userID, "@"); at >= 0 {
		return sanitizeEmail(userID, at)
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

func sanitizeEmail(email string, at int) string {
	if at == 0 {
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// Truncate shortens s to maxLen bytes, appending "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
