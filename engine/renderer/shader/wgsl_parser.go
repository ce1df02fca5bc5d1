package shader

import (
	"regexp"
	"strings"
)

var (
	lineCommentRegex   = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	vertexEntryRegex   = regexp.MustCompile(`@vertex\s+fn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`@fragment\s+fn\s+(\w+)`)
)

// stripComments removes line and block comments from WGSL source.
func stripComments(source string) string {
	source = blockCommentRegex.ReplaceAllString(source, "")
	return lineCommentRegex.ReplaceAllString(source, "")
}

// parseEntryPoint finds the name of the first function tagged with the stage
// attribute for shaderType, or "" when there is none.
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return strings.TrimSpace(match[1])
	}
	return ""
}
