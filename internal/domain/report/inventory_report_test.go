package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgingBucketFor(t *testing.T) {
	assert.Equal(t, AgingBucket0To30, AgingBucketFor(0))
	assert.Equal(t, AgingBucket0To30, AgingBucketFor(30))
	assert.Equal(t, AgingBucket31To60, AgingBucketFor(31))
	assert.Equal(t, AgingBucket31To60, AgingBucketFor(60))
	assert.Equal(t, AgingBucket61To90, AgingBucketFor(61))
	assert.Equal(t, AgingBucket61To90, AgingBucketFor(90))
	assert.Equal(t, AgingBucket90Plus, AgingBucketFor(91))
	assert.Equal(t, AgingBucket90Plus, AgingBucketFor(400))
}
