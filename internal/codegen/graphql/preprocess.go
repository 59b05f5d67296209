package graphql

import (
	"regexp"
)

// serviceStartRegex matches service declarations at the start of a line.
// Captures the service name which must be a valid GraphQL identifier.
var serviceStartRegex = regexp.MustCompile(`(?m)^service\s+(\w+)`)

// ServiceTypePrefix marks object types rewritten from service blocks
const ServiceTypePrefix = "Service_"

// Preprocess rewrites `service` blocks into plain GraphQL `type` definitions
// so that standard GraphQL tooling can parse the document.
func Preprocess(input string) string {
	return serviceStartRegex.ReplaceAllStringFunc(input, func(match string) string {
		serviceName := serviceStartRegex.FindStringSubmatch(match)[1]
		return "type " + ServiceTypePrefix + serviceName
	})
}
