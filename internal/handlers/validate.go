// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"unicode/utf8"

	"earsip/internal/models"
)

// Length limits for free-text fields. Required-field checks live in the
// state package; these only bound sizes.
const (
	maxCategoryNameLen = 120
	maxTitleLen        = 300
	maxDescriptionLen  = 5_000
	maxSnippetLen      = 20_000
	maxDocNumberLen    = 100
	maxFilesPerArchive = 50
	maxQueryLen        = 2_000
)

// validateCategoryName checks the size of a category name.
func validateCategoryName(name string) string {
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return fmt.Sprintf("is too long (max %d characters)", maxCategoryNameLen)
	}
	return ""
}

// validateArchiveFields checks the sizes of archive metadata and returns
// the offending field with a message.
func validateArchiveFields(d models.ArchiveDocument) (field, msg string) {
	switch {
	case utf8.RuneCountInString(d.Title) > maxTitleLen:
		return "title", fmt.Sprintf("is too long (max %d characters)", maxTitleLen)
	case utf8.RuneCountInString(d.Description) > maxDescriptionLen:
		return "description", fmt.Sprintf("is too long (max %d characters)", maxDescriptionLen)
	case utf8.RuneCountInString(d.ContentSnippet) > maxSnippetLen:
		return "contentSnippet", fmt.Sprintf("is too long (max %d characters)", maxSnippetLen)
	case utf8.RuneCountInString(d.DocumentNumber) > maxDocNumberLen:
		return "documentNumber", fmt.Sprintf("is too long (max %d characters)", maxDocNumberLen)
	case len(d.Files) > maxFilesPerArchive:
		return "files", fmt.Sprintf("at most %d files per document", maxFilesPerArchive)
	}
	return "", ""
}

// validateQuery checks the size of an AI prompt input.
func validateQuery(q string) string {
	if utf8.RuneCountInString(q) > maxQueryLen {
		return fmt.Sprintf("is too long (max %d characters)", maxQueryLen)
	}
	return ""
}
