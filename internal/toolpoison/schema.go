package toolpoison

import (
	"fmt"
	"regexp"
	"sort"
)

const maxDefaultValueLength = 100

var shellMetacharacters = regexp.MustCompile("[<>{}\\[\\]`$|;]")
var shellCommandPattern = regexp.MustCompile(`(?i)\b(rm|curl|wget|bash|sh|eval|exec)\b`)

const maxEnumValueLength = 50

// scanSchema implements the schema_manipulation category's four sub-checks
// over a tool's inputSchema.
func scanSchema(schema *Schema) []DetectionResult {
	if schema == nil {
		return nil
	}

	var results []DetectionResult

	if schema.AdditionalProperties != nil && *schema.AdditionalProperties && len(schema.Properties) == 0 {
		results = append(results, DetectionResult{
			PatternID:   "TP_SCHEMA_001",
			Category:    "schema_manipulation",
			Severity:    "high",
			Field:       "inputSchema",
			Title:       "Schema accepts arbitrary additional fields",
			Description: "additionalProperties is true with no declared properties; any client can smuggle arbitrary fields the tool was never reviewed to accept.",
		})
	}

	results = append(results, scanSchemaNode(schema, "inputSchema")...)

	return results
}

// scanSchemaNode recursively walks a schema tree applying sub-checks 2-4 at
// every property.
func scanSchemaNode(s *Schema, path string) []DetectionResult {
	if s == nil {
		return nil
	}

	var results []DetectionResult

	if s.Description != "" {
		if r := scanHiddenUnicode(path+".description", s.Description); r != nil {
			results = append(results, *r)
		}
		results = append(results, scanInjection(path+".description", s.Description)...)
		if r := scanHomoglyph(path+".description", s.Description); r != nil {
			results = append(results, *r)
		}
	}

	if defaultStr, ok := s.Default.(string); ok && defaultStr != "" {
		results = append(results, scanDefaultValue(path+".default", defaultStr)...)
	}

	for _, enumVal := range s.Enum {
		if len(enumVal) > maxEnumValueLength {
			hits := scanInjection(path+".enum", enumVal)
			for range hits {
				results = append(results, DetectionResult{
					PatternID:   "TP_SCHEMA_004",
					Category:    "schema_manipulation",
					Severity:    "high",
					Field:       path + ".enum",
					Title:       "Enum value carries an instruction-injection payload",
					Description: "An enum value longer than 50 characters matches the instruction-injection pack.",
					Evidence:    fmt.Sprintf("enum_value=%q", preview(enumVal, 80)),
				})
			}
		}
	}

	propNames := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)
	for _, name := range propNames {
		results = append(results, scanSchemaNode(s.Properties[name], path+"."+name)...)
	}
	if s.Items != nil {
		results = append(results, scanSchemaNode(s.Items, path+"[]")...)
	}

	return results
}

// scanDefaultValue implements sub-check 3: suspicious string defaults.
func scanDefaultValue(field, value string) []DetectionResult {
	injectionHits := scanInjection(field, value)
	hasShellPattern := shellCommandPattern.MatchString(value) && shellMetacharacters.MatchString(value)

	suspicious := len(value) > maxDefaultValueLength || shellMetacharacters.MatchString(value) || hasShellPattern
	if !suspicious && len(injectionHits) == 0 {
		return nil
	}

	severity := "medium"
	if len(injectionHits) > 0 || hasShellPattern {
		severity = "critical"
	}

	return []DetectionResult{{
		PatternID:   "TP_SCHEMA_003",
		Category:    "schema_manipulation",
		Severity:    severity,
		Field:       field,
		Title:       "Suspicious default value",
		Description: "The property's default value is unusually long or contains shell/markup metacharacters.",
		Evidence:    fmt.Sprintf("default=%q", preview(value, 80)),
	}}
}
