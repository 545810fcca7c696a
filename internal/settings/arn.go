package settings

import "regexp"

// Lambda function ARN: arn:partition:lambda:region:account:function:name.
// The region token is lowercase letters, digits, and hyphens.
var lambdaARNPattern = regexp.MustCompile(`^arn:[a-z0-9-]+:lambda:([a-z0-9-]+):\d{12}:function:.+$`)

// DeriveLambdaRegion extracts the region token from a Lambda function ARN.
// It returns false when arn does not match the function identifier pattern,
// in which case the caller must leave the region field untouched.
func DeriveLambdaRegion(arn string) (string, bool) {
	m := lambdaARNPattern.FindStringSubmatch(arn)
	if m == nil {
		return "", false
	}
	return m[1], true
}
