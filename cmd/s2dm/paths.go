package main

import (
	"path/filepath"
	"regexp"
	"strings"
)

// applyVersionTagSuffix appends "_<tag>" to the file stem unless the stem
// already carries it, so repeated runs do not stack suffixes.
func applyVersionTagSuffix(path, tag string) string {
	if tag == "" {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if strings.HasSuffix(stem, "_"+tag) {
		return path
	}
	return stem + "_" + tag + ext
}

// deriveVariantIDsPath returns the registry path written next to a spec
// history file for the given version tag.
func deriveVariantIDsPath(dir, tag string) string {
	return filepath.Join(dir, "variant_ids_"+tag+".json")
}

// languageTag matches the BCP 47 shape the RDF serializers accept: a
// primary language subtag followed by optional alphanumeric subtags.
var languageTag = regexp.MustCompile(`^[A-Za-z]{2,8}(-[A-Za-z0-9]{1,8})*$`)

func validLanguageTag(tag string) bool {
	return languageTag.MatchString(tag)
}
