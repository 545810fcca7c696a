package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLambdaRegion(t *testing.T) {
	tests := []struct {
		name   string
		arn    string
		region string
		ok     bool
	}{
		{
			name:   "standard function ARN",
			arn:    "arn:aws:lambda:us-west-2:123456789012:function:foo",
			region: "us-west-2",
			ok:     true,
		},
		{
			name:   "china partition",
			arn:    "arn:aws-cn:lambda:cn-north-1:123456789012:function:bar",
			region: "cn-north-1",
			ok:     true,
		},
		{
			name: "not an ARN",
			arn:  "not-an-arn",
			ok:   false,
		},
		{
			name: "different service",
			arn:  "arn:aws:kms:us-west-2:123456789012:key/abc",
			ok:   false,
		},
		{
			name: "empty",
			arn:  "",
			ok:   false,
		},
		{
			name: "uppercase region rejected",
			arn:  "arn:aws:lambda:US-WEST-2:123456789012:function:foo",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region, ok := DeriveLambdaRegion(tt.arn)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.region, region)
		})
	}
}
